package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alvarobaron-emerita/saas-inversion/internal/config"
	"github.com/alvarobaron-emerita/saas-inversion/internal/database"
	"github.com/alvarobaron-emerita/saas-inversion/internal/llm"
	"github.com/alvarobaron-emerita/saas-inversion/internal/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
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
	Use:     "emerita",
	Short:   "Company screening and sector analysis",
	Long:    "Emerita manages spreadsheet-based company screening with computed columns and LLM-assisted sector reports.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// A .env next to the binary may carry GEMINI_API_KEY.
		_ = godotenv.Load()

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
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
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("emerita", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/emerita/",
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
		fmt.Println("Edit it to configure the model and API key variable.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Search:")
		fmt.Printf("  Projects: %d\n", stats.SearchProjects)
		fmt.Printf("  Columns: %d\n", stats.Columns)
		fmt.Printf("  Rows: %d\n", stats.Rows)
		fmt.Printf("  Views: %d\n", stats.Views)
		fmt.Println("\nDiscovery:")
		fmt.Printf("  Projects: %d\n", stats.DiscoveryProjects)
		fmt.Printf("  Generated reports: %d\n", stats.Reports)

		provider := llm.CreateProvider(cfg.LLM.Model, cfg.LLM.APIKeyEnv)
		if provider == nil {
			fmt.Printf("\nLLM: not configured (set %s)\n", cfg.LLM.APIKeyEnv)
		} else {
			fmt.Printf("\nLLM: %s\n", cfg.LLM.Model)
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		provider := llm.CreateProvider(cfg.LLM.Model, cfg.LLM.APIKeyEnv)
		if provider == nil {
			fmt.Printf("Warning: %s not set, AI endpoints will return errors\n", cfg.LLM.APIKeyEnv)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, cfg, provider, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "emerita.db")
	return database.Open(dbPath)
}
