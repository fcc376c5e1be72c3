// cmd/restamp/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"restamp/internal/config"
	"restamp/internal/logging"
	"restamp/internal/restore"
)

var rootCmd = &cobra.Command{
	Use:   "restamp [flags] [pathspec...]",
	Short: "Restore file modification times from version history",
	Long: `Restamp rewrites the modification time of each tracked file to the date
of the last commit that touched it, then dates every directory by the
newest file beneath it. Checkouts always stamp "now" on everything;
running restamp before packaging or auditing puts the real dates back.

Pathspecs select files: a file name, a directory (its whole subtree),
or a glob matched against paths relative to the work tree root. With no
pathspec the whole tree is restored.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, level, err := effectiveOptions(cmd, args)
		if err != nil {
			return err
		}

		logger, err := logging.NewLogger(level)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer logger.Sync()

		summary, err := restore.New(opts, logger.Logger).Run()
		if err != nil {
			return err
		}

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			restore.RenderSummary(os.Stdout, summary)
		}
		return nil
	},
}

func init() {
	flags := rootCmd.Flags()

	flags.BoolP("force", "f", false, "run even when the working tree has uncommitted changes")
	flags.BoolP("test", "t", false, "dry run: report what would change, touch nothing")
	flags.BoolP("merge", "m", false, "scan merge commit diffs in the primary pass")
	flags.Bool("first-parent", false, "follow only the first parent of merges")
	flags.Bool("skip-missing", false, "skip the merge-history retry for unresolved files")
	flags.BoolP("no-directories", "D", false, "leave directory times alone")
	flags.BoolP("commit-time", "c", false, "use committer dates instead of author dates")
	flags.Int64("skip-older-than", 0, "leave files whose mtime is already older than this many seconds")
	flags.Int("batch-size", config.DefaultBatchSize, "files per retry scan")
	flags.String("work-tree", "", "work tree to restore instead of the current directory's")
	flags.String("git-dir", "", "repository metadata directory, when not at its usual place")
	flags.BoolP("quiet", "q", false, "errors only, no summary")
	flags.BoolP("verbose", "v", false, "debug logging")
	flags.String("config", "", "config file (default .restamp.yaml in work tree or $HOME)")
}

// effectiveOptions merges the config file with whatever flags were set
// explicitly; a flag the user typed always wins.
func effectiveOptions(cmd *cobra.Command, args []string) (restore.Options, string, error) {
	flags := cmd.Flags()

	cfgFile, _ := flags.GetString("config")
	workTree, _ := flags.GetString("work-tree")
	gitDir, _ := flags.GetString("git-dir")

	cfg, err := config.Load(cfgFile, workTree)
	if err != nil {
		return restore.Options{}, "", err
	}

	opts := restore.Options{
		Patterns:      args,
		WorkTree:      workTree,
		GitDir:        gitDir,
		Merge:         cfg.Merge,
		FirstParent:   cfg.FirstParent,
		CommitTime:    cfg.CommitTime,
		SkipMissing:   cfg.SkipMissing,
		Directories:   cfg.Directories,
		SkipOlderThan: cfg.SkipOlderThan,
		BatchSize:     cfg.BatchSize,
	}

	opts.Force, _ = flags.GetBool("force")
	opts.DryRun, _ = flags.GetBool("test")

	if flags.Changed("merge") {
		opts.Merge, _ = flags.GetBool("merge")
	}
	if flags.Changed("first-parent") {
		opts.FirstParent, _ = flags.GetBool("first-parent")
	}
	if flags.Changed("commit-time") {
		opts.CommitTime, _ = flags.GetBool("commit-time")
	}
	if flags.Changed("skip-missing") {
		opts.SkipMissing, _ = flags.GetBool("skip-missing")
	}
	if flags.Changed("no-directories") {
		noDirs, _ := flags.GetBool("no-directories")
		opts.Directories = !noDirs
	}
	if flags.Changed("skip-older-than") {
		opts.SkipOlderThan, _ = flags.GetInt64("skip-older-than")
	}
	if flags.Changed("batch-size") {
		opts.BatchSize, _ = flags.GetInt("batch-size")
	}
	if opts.BatchSize < 1 {
		return restore.Options{}, "", fmt.Errorf("batch size must be at least 1")
	}

	level := cfg.LogLevel
	if verbose, _ := flags.GetBool("verbose"); verbose {
		level = "debug"
	}
	if quiet, _ := flags.GetBool("quiet"); quiet {
		level = "error"
	}

	return opts, level, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
