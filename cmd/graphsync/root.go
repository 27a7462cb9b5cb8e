package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/config"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/engine"
	"github.com/RSAC-Labs/Quantickle-sub006/internal/neo4j"
)

var (
	configFile string
	storeURL   string
	storeDB    string
	storeUser  string
	storePass  string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "graphsync",
	Short: "Synchronize property graphs with a transactional graph store",
	Long: `graphsync saves, fetches, lists, deletes, and searches named property
graphs held in a shared graph store reachable through its batched
transactional endpoint. Each operation is a single atomic statement batch.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&storeURL, "url", "", "store base URL (default from "+config.EnvStoreURL+")")
	rootCmd.PersistentFlags().StringVar(&storeDB, "database", "", "store database name (default from "+config.EnvStoreDatabase+")")
	rootCmd.PersistentFlags().StringVar(&storeUser, "username", "", "store username (default from "+config.EnvStoreUsername+")")
	rootCmd.PersistentFlags().StringVar(&storePass, "password", "", "store password (default from "+config.EnvStorePassword+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(saveCmd, getCmd, listCmd, deleteCmd, searchCmd)
}

// loadConfig loads the optional config file and applies flag > file > env >
// default precedence for credentials.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if storeURL != "" {
		cfg.Store.URL = storeURL
	}
	if storeDB != "" {
		cfg.Store.Database = storeDB
	}
	if storeUser != "" {
		cfg.Store.Username = storeUser
	}
	if storePass != "" {
		cfg.Store.Password = storePass
	}

	level := slog.LevelInfo
	if verbose || cfg.Log.Level == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return nil
}

func credentials() neo4j.Credentials {
	return cfg.Store.Credentials()
}

func newEngine() *engine.Engine {
	return engine.New(neo4j.NewClient(), slog.Default())
}
