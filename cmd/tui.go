package cmd

import (
	"github.com/spf13/cobra"

	"github.com/diffpatch/diffpatch/internal/tree"
	"github.com/diffpatch/diffpatch/internal/tui"
	"github.com/diffpatch/diffpatch/internal/util"
)

// tuiCmd launches the full-screen review browser instead of the sequential
// prompt session. Decisions work the same way; w writes them back.
var tuiCmd = &cobra.Command{
	Use:   "tui <BEFORE_DIR> <AFTER_DIR>",
	Short: "Review hunks in a full-screen browser",
	Long: `Compare two directory trees and browse the changed files in a
full-screen interface. Navigate freely between files and hunks, accept or
reject them in any order, then press w to write the accepted subset into
the after directory.`,
	Args: cobra.ExactArgs(2),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().IntVar(&flagContext, "context", 0, "context lines per hunk (default 3)")
}

func runTUI(cmd *cobra.Command, args []string) error {
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
	if len(changes) == 0 {
		util.Info("trees are identical")
		return nil
	}

	return tui.NewApp(changes, summary, beforeDir, afterDir).Run()
}
