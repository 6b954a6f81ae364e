package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/config"
	"github.com/lineofflight/changeos/internal/database"
	"github.com/lineofflight/changeos/internal/llm"
	"github.com/lineofflight/changeos/internal/server"
	"github.com/lineofflight/changeos/internal/workspace"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "changeos",
	Short:   "Change intelligence for transformation initiatives",
	Long:    "ChangeOS turns meeting notes, surveys and observations into an early read on adoption, attrition and technical debt risk.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			setLogFlags(verbose)
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		setLogFlags(verbose || strings.EqualFold(cfg.Logging.Level, "DEBUG"))
		return nil
	},
}

func setLogFlags(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(initiativeCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(analyseCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(toolsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("changeos", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/changeos/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to choose the analysis provider, then save a key with: changeos key set")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored data and analysis run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		initiative := ws.Initiative()
		fmt.Printf("Today: %s\n\n", database.GetToday())
		fmt.Println("Initiative:")
		fmt.Printf("  %s · %s · %d weeks\n", initiative.Name, initiative.Organisation, initiative.Timeline)
		fmt.Println("\nData:")
		fmt.Printf("  Signals: %d\n", len(ws.Signals()))
		fmt.Printf("  Stored slots: %d\n", stats.Slots)
		if a := ws.Analysis(); a != nil {
			fmt.Printf("  Last analysis: %s (confidence %s)\n", database.FormatTimestamp(a.LastRun), a.Confidence)
		} else {
			fmt.Println("  Last analysis: none")
		}
		fmt.Println("\nAnalysis runs:")
		fmt.Printf("  Provider: %s\n", cfg.Analysis.Provider)
		fmt.Printf("  Total: %d\n", stats.Runs)
		fmt.Printf("  Failed: %d\n", stats.FailedRuns)
		if stats.LastRunAt != "" {
			fmt.Printf("  Last: %s (%s)\n", stats.LastRunAt, stats.LastOutcome)
		}

		reports, err := db.GetRecentReports(5)
		if err != nil {
			return fmt.Errorf("getting run reports: %w", err)
		}
		for _, r := range reports {
			line := fmt.Sprintf("  [%d] %s %s %d signals: %s", r.ID, r.RanAt, r.Provider, r.SignalCount, r.Outcome)
			if r.Message != nil {
				line += " - " + *r.Message
			}
			fmt.Println(line)
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}

		ws.SetMode(workspace.ModeDemo)

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ws, db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "changeos.db")
	return database.Open(dbPath)
}

// newWorkspace wires the configured provider into a workspace over db and
// restores its saved state. The workspace starts in live mode.
func newWorkspace(db *database.DB) (*workspace.Workspace, error) {
	factory, err := llm.NewFactory(llm.Options{
		Provider:    cfg.Analysis.Provider,
		Model:       cfg.Analysis.Model,
		BaseURL:     cfg.Analysis.BaseURL,
		OpenAIModel: cfg.Analysis.OpenAIModel,
		OllamaURL:   cfg.Analysis.OllamaURL,
		GeminiModel: cfg.Analysis.GeminiModel,
		Timeout:     cfg.Analysis.Timeout(),
	})
	if err != nil {
		return nil, err
	}

	client := analysis.NewClient(factory, cfg.Analysis.Provider, cfg.Analysis.MaxTokens)
	var envKey string
	if cfg.Analysis.APIKeyEnv != "" {
		envKey = os.Getenv(cfg.Analysis.APIKeyEnv)
	}
	ws := workspace.New(db, client, workspace.WithReporter(db), workspace.WithFallbackKey(envKey))
	ws.Load()
	ws.SetMode(workspace.ModeLive)
	return ws, nil
}
