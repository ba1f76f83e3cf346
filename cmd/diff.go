package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diffpatch/diffpatch/internal/diff"
	"github.com/diffpatch/diffpatch/internal/present"
	"github.com/diffpatch/diffpatch/internal/tree"
	"github.com/diffpatch/diffpatch/internal/util"
)

var diffStat bool

// diffCmd prints the full diff between the trees without any interaction.
// Useful to preview a session, or to pipe the diff somewhere else.
var diffCmd = &cobra.Command{
	Use:   "diff <BEFORE_DIR> <AFTER_DIR>",
	Short: "Print the diff between two directory trees",
	Long: `Compare two directory trees and print every hunk in unified diff
format. No selection session is started and nothing is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().IntVar(&flagContext, "context", 0, "context lines per hunk (default 3)")
	diffCmd.Flags().BoolVar(&diffStat, "stat", false, "print a per-file summary instead of the hunks")
}

func runDiff(cmd *cobra.Command, args []string) error {
	beforeDir, afterDir, err := resolveDirs(args)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := util.InitLogger(opts.Verbose); err != nil {
		return err
	}
	defer util.CleanupLogger()

	changes, summary, err := tree.DiffTrees(beforeDir, afterDir, tree.WalkOptions{ContextLen: opts.ContextLen})
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if diffStat {
		printStat(out, changes, summary)
		return nil
	}
	for _, change := range changes {
		present.WriteFileHeader(out, change)
		if len(change.Hunks) == 0 {
			present.WriteWholeFile(out, change)
			continue
		}
		for _, h := range change.Hunks {
			present.WriteHunk(out, h)
		}
	}
	return nil
}

func printStat(out *bufio.Writer, changes []*tree.FileChange, summary *tree.Summary) {
	for _, change := range changes {
		var status string
		switch change.Kind {
		case tree.ChangeAdded:
			status = "A"
		case tree.ChangeRemoved:
			status = "D"
		default:
			status = "M"
		}
		detail := fmt.Sprintf("%d hunks", len(change.Hunks))
		if change.Binary {
			detail = "binary"
		} else if change.Kind != tree.ChangeModified {
			detail = fmt.Sprintf("%d lines", wholeFileLines(change))
		}
		fmt.Fprintf(out, " %s  %-50s %s\n", status, change.Path, detail)
	}
	fmt.Fprintf(out, "\n %d files changed (%d added, %d removed, %d modified), %d hunks\n",
		summary.AddedFiles+summary.RemovedFiles+summary.ModifiedFiles,
		summary.AddedFiles, summary.RemovedFiles, summary.ModifiedFiles, summary.TotalHunks)
}

func wholeFileLines(change *tree.FileChange) int {
	content := change.NewContent
	if change.Kind == tree.ChangeRemoved {
		content = change.OldContent
	}
	return len(diff.SplitLines(content))
}
