package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diffpatch/diffpatch/internal/config"
	"github.com/diffpatch/diffpatch/internal/editor"
	"github.com/diffpatch/diffpatch/internal/materialize"
	"github.com/diffpatch/diffpatch/internal/present"
	"github.com/diffpatch/diffpatch/internal/session"
	"github.com/diffpatch/diffpatch/internal/tree"
	"github.com/diffpatch/diffpatch/internal/util"
)

var (
	cfgFile       string
	verboseLevel  int
	flagContext   int
	flagInterface string
	flagImmediate bool
	flagNoColor   bool
)

// rootCmd represents the base command: an interactive hunk-selection
// session over two directory trees.
var rootCmd = &cobra.Command{
	Use:   "diffpatch <BEFORE_DIR> <AFTER_DIR>",
	Short: "Interactively select diff hunks between two directory trees",
	Long: `Diffpatch compares two directory trees and walks you through every
changed hunk, letting you accept, reject, or edit each one. The accepted
subset is written back into the after directory when the session ends.

It is designed to be invoked as an external diff editor by a version
control tool: the tool supplies two temporary directories representing two
revisions, and the after directory's final content is the intermediate
state you selected.

Session commands:
  y - accept this hunk          n - reject this hunk
  a - accept all remaining      d - reject all remaining
  e - edit this hunk            q - quit (pending hunks are rejected)`,
	Version: "1.0.0",
	Args:    cobra.ExactArgs(2),
	RunE:    runSession,
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/diffpatch/config.toml)")
	rootCmd.PersistentFlags().CountVarP(&verboseLevel, "verbose", "v", "write debug output to debug.log (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.Flags().IntVar(&flagContext, "context", 0, "context lines per hunk (default 3)")
	rootCmd.Flags().StringVar(&flagInterface, "interface", "", "presenter variant: direct, fullscreen, inline-clear")
	rootCmd.Flags().BoolVar(&flagImmediate, "immediate", false, "dispatch commands on first keypress, no newline needed")
}

// loadOptions resolves configuration (defaults < file < env) and overlays
// any explicitly set command-line flags.
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	opts, err := config.Load(cfgFile)
	if err != nil {
		return opts, err
	}
	if cmd.Flags().Changed("context") {
		if flagContext < 0 {
			return opts, fmt.Errorf("context length must be non-negative, got %d", flagContext)
		}
		opts.ContextLen = flagContext
	}
	if cmd.Flags().Changed("interface") {
		iface, err := config.ParseInterface(flagInterface)
		if err != nil {
			return opts, err
		}
		opts.Interface = iface
	}
	if cmd.Flags().Changed("immediate") {
		opts.ImmediateCommand = flagImmediate
	}
	opts.NoColor = flagNoColor
	opts.Verbose = verboseLevel
	return opts, nil
}

func runSession(cmd *cobra.Command, args []string) error {
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
	util.Info("session starting", "before", beforeDir, "after", afterDir, "interface", opts.Interface.String())

	changes, summary, err := tree.DiffTrees(beforeDir, afterDir, tree.WalkOptions{ContextLen: opts.ContextLen})
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		util.Info("trees are identical")
		return nil
	}
	util.Info("changes detected", "files", len(changes), "hunks", summary.TotalHunks)

	editorCmd := opts.Editor
	if editorCmd == "" {
		editorCmd = editor.DefaultCommand()
	}
	bridge := editor.NewBridge(editor.CommandInvoker{Command: editorCmd})

	presenter := present.New(opts, os.Stdin, os.Stdout)
	// The deferred close backs up every error path; terminal-mode failures
	// must never leave the shell broken silently.
	defer func() {
		if cerr := presenter.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", cerr)
		}
	}()

	controller := session.NewController(changes, presenter, bridge)
	ledger, err := controller.Run()
	if err != nil {
		return err
	}
	// Restore the terminal before touching the after tree so a write failure
	// is reported on a sane screen.
	if cerr := presenter.Close(); cerr != nil {
		return cerr
	}

	if err := materialize.Apply(afterDir, changes, ledger); err != nil {
		return err
	}
	util.Info("materialized", "accepted", ledger.AcceptedCount())
	return nil
}

// resolveDirs validates and absolutizes the two tree roots.
func resolveDirs(args []string) (string, string, error) {
	beforeDir, afterDir := args[0], args[1]
	if err := validateDirectory(beforeDir); err != nil {
		return "", "", fmt.Errorf("before directory: %w", err)
	}
	if err := validateDirectory(afterDir); err != nil {
		return "", "", fmt.Errorf("after directory: %w", err)
	}
	beforeDir, err := filepath.Abs(beforeDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve before directory path: %w", err)
	}
	afterDir, err = filepath.Abs(afterDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve after directory path: %w", err)
	}
	return beforeDir, afterDir, nil
}

func validateDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return fmt.Errorf("failed to access directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}
