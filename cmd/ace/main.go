// ACE: Agentic Context Engineering MCP Server
//
// An MCP server that maintains an evolving playbook — a structured text
// file of strategies, formulas, mistakes, and domain knowledge that
// improves AI task performance through reflection and curation, with
// per-project scopes layered over a shared global playbook.
//
// Usage:
//
//	ace serve            # Start MCP server (stdio transport)
//	ace curate [project] # Destructive curation pass (prune + merge + rebuild)
//	ace export           # Export playbook data as SQL
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agentic-context/ace/internal/config"
	"github.com/agentic-context/ace/internal/export"
	"github.com/agentic-context/ace/internal/playbook"
	aceserver "github.com/agentic-context/ace/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

var (
	dataDir string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ace",
	Short: "ACE — Agentic Context Engineering playbook server",
	Long: `ACE maintains an evolving playbook: scored entries of strategies,
formulas, mistakes, and domain knowledge, grouped into fixed sections
and scoped per project over a shared global playbook.

The 'serve' command exposes the playbook over MCP (stdio transport);
'curate' runs the standalone destructive curation pass; 'export'
serializes stored data as SQL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr: on 'serve', stdout is the MCP stdio channel.
		zapCfg := zap.NewProductionConfig()
		zapCfg.OutputPaths = []string{"stderr"}
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := aceserver.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}
		return server.ServeStdio(s)
	},
}

var (
	curateThreshold int
	curateDryRun    bool
)

var curateCmd = &cobra.Command{
	Use:   "curate [project]",
	Short: "Run the destructive curation pass on one project's playbook",
	Long: `Prunes harmful entries, merges near-duplicates, re-sorts each section
by helpful count, and regenerates the playbook in canonical section
order. Unlike the curate_playbook MCP tool, this pass rewrites the file
from scratch and discards any text that is not a recognized entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		projectID := playbook.GlobalProject
		if len(args) == 1 {
			projectID = args[0]
		}
		threshold := curateThreshold
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.HarmfulThreshold
		}

		store, err := playbook.New(playbook.Config{DataDir: cfg.DataDir})
		if err != nil {
			return fmt.Errorf("opening playbook store: %w", err)
		}

		curated, stats, err := store.RebuildCurate(projectID, threshold, curateDryRun)
		if err != nil {
			return fmt.Errorf("curating %q: %w", projectID, err)
		}

		fmt.Printf("Curation complete for project %q:\n", projectID)
		fmt.Printf("  Sections processed: %d\n", stats.SectionsProcessed)
		fmt.Printf("  Entries removed (harmful): %d\n", stats.RemovedHarmful)
		fmt.Printf("  Entries merged (duplicates): %d\n", stats.MergedDuplicates)
		fmt.Printf("  Original count: %d\n", stats.OriginalCount)
		fmt.Printf("  Final count: %d\n", stats.FinalCount)

		if curateDryRun {
			fmt.Printf("\n--- Curated playbook (dry run) ---\n\n%s\n", curated)
		} else {
			fmt.Printf("\nWritten to %s\n", store.PlaybookPath(projectID))
		}
		return nil
	},
}

var (
	exportOutput  string
	exportDB      string
	exportProject string
	exportUserID  string
	exportDryRun  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export playbooks, reflections, and projects as SQL",
	Long: `Reads every stored playbook and reflection log (including the legacy
single-file layout) and generates INSERT statements for a relational
schema. By default the script is printed to stdout; --output writes it
to a file and --db executes it directly against a SQLite database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		discovery := export.Discover(cfg.DataDir)
		if len(discovery.Playbooks) == 0 && len(discovery.Reflections) == 0 {
			return fmt.Errorf("no playbook data found under %s", cfg.DataDir)
		}

		if exportDryRun {
			fmt.Println("Found playbooks:")
			for id, path := range discovery.Playbooks {
				fmt.Printf("  - %s: %s\n", id, path)
			}
			fmt.Println("Found reflections:")
			for id, path := range discovery.Reflections {
				fmt.Printf("  - %s: %s\n", id, path)
			}
			return nil
		}

		script, err := export.Generate(export.Options{
			DataDir: cfg.DataDir,
			Project: exportProject,
			UserID:  exportUserID,
		})
		if err != nil {
			return fmt.Errorf("generating migration: %w", err)
		}

		switch {
		case exportDB != "":
			if err := export.Execute(exportDB, script); err != nil {
				return err
			}
			logger.Info("migration executed", zap.String("database", exportDB))
			fmt.Printf("Migration executed against %s\n", exportDB)
		case exportOutput != "":
			if err := os.WriteFile(exportOutput, []byte(script), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", exportOutput, err)
			}
			fmt.Printf("Migration SQL written to %s\n", exportOutput)
		default:
			fmt.Println(script)
		}
		return nil
	},
}

// loadConfig reads the YAML config and applies the --data-dir override.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "playbook data directory (default ~/.ace)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	curateCmd.Flags().IntVar(&curateThreshold, "threshold", playbook.DefaultHarmfulThreshold, "remove entries where harmful exceeds helpful by this amount")
	curateCmd.Flags().BoolVar(&curateDryRun, "dry-run", false, "show the curated playbook without writing it")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write the SQL script to a file")
	exportCmd.Flags().StringVar(&exportDB, "db", "", "execute the migration against a SQLite database file")
	exportCmd.Flags().StringVarP(&exportProject, "project", "p", "", "export a single project only")
	exportCmd.Flags().StringVar(&exportUserID, "user-id", "default", "user ID to associate with exported rows")
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false, "list what would be exported without generating SQL")

	rootCmd.AddCommand(serveCmd, curateCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
