package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/internal/cli"
	"github.com/aretw0/formcheck/internal/config"
	"github.com/aretw0/formcheck/internal/logging"
	"github.com/aretw0/formcheck/pkg/observability"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formcheck",
	Short: "formcheck validates JSON values against declarative schemas",
	Long: `formcheck checks structured data against declarative schemas and reports every
failure with its path, a stable code and a readable message.

Schemas can be given as JSON or YAML files, or stored by name in a memory,
file or Redis registry shared by the CLI, the HTTP server and the MCP server.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "Path to the formcheck configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().String("store", "", "Schema store: memory, file or redis")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory of the file store")
	rootCmd.PersistentFlags().String("redis-addr", "", "Address of the Redis store")
}

// loadConfig reads the configuration file and applies flag overrides.
// The default file is optional; an explicit --config must exist.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, !cmd.Flags().Changed("config"))
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
	}
	if cmd.Flags().Changed("store") {
		cfg.Store.Kind, _ = cmd.Flags().GetString("store")
	}
	if cmd.Flags().Changed("store-dir") {
		cfg.Store.Dir, _ = cmd.Flags().GetString("store-dir")
	}
	if cmd.Flags().Changed("redis-addr") {
		cfg.Store.Redis.Addr, _ = cmd.Flags().GetString("redis-addr")
	}
	return cfg, cfg.Validate()
}

// setup builds the logger and the Validator shared by every command.
func setup(ctx context.Context, cmd *cobra.Command, hooks ...observability.Hooks) (config.Config, *slog.Logger, *formcheck.Validator, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.SlogLevel(), cfg.LogFormat)
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	v, closeStore, err := cli.NewValidator(ctx, cfg, logger, hooks...)
	if err != nil {
		return cfg, logger, nil, nil, err
	}
	return cfg, logger, v, closeStore, nil
}

// fail prints err and exits with the usage/IO error status.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
