package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"taskdeck/app"
	"taskdeck/auth"
	"taskdeck/backend/googletasks"
	"taskdeck/config"
	"taskdeck/history"
	sentrypkg "taskdeck/internal/sentry"
	"taskdeck/log"
)

var (
	version     = "0.3.0"
	projectFlag string

	rootCmd = &cobra.Command{
		Use:   "taskdeck",
		Short: "taskdeck - a terminal client for Google Tasks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg := config.LoadConfig()
			if err := sentrypkg.Init(version, cfg.IsTelemetryEnabled()); err != nil {
				// Non-fatal: sentry failure should not prevent startup
				_ = err
			}
			defer sentrypkg.Flush()
			defer sentrypkg.RecoverPanic()

			log.Initialize(cfg.IsTelemetryEnabled())
			defer log.Close()

			if projectFlag != "" {
				cfg.DefaultProject = projectFlag
			}

			if !auth.HasToken(cfg) {
				return fmt.Errorf("not authorized yet; run: taskdeck auth")
			}

			service, err := googletasks.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to Google Tasks: %w", err)
			}

			journal := newJournal(cfg)
			defer journal.Close()

			sentrypkg.SetContext("googletasks")

			return app.Run(ctx, service, journal, cfg)
		},
	}

	authCmd = &cobra.Command{
		Use:   "auth",
		Short: "Authorize with Google and cache the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			return auth.Login(context.Background(), config.LoadConfig())
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Remove the cached Google token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.Logout(config.LoadConfig()); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			fmt.Println("Token removed")
			return nil
		},
	}

	historyLimitFlag int
	historyCmd       = &cobra.Command{
		Use:   "history",
		Short: "Print recent task mutations from the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()
			if !cfg.IsHistoryEnabled() {
				return fmt.Errorf("history journal is disabled in config")
			}

			journal, err := history.NewSQLiteLogger(cfg.HistoryDBPath())
			if err != nil {
				return err
			}
			defer journal.Close()

			events, err := journal.Query(history.QueryFilter{Limit: historyLimitFlag})
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No history yet")
				return nil
			}
			for _, e := range events {
				line := fmt.Sprintf("%s  %-14s  %s",
					e.Timestamp.Local().Format("2006-01-02 15:04"), e.Kind, e.TaskTitle)
				if e.Message != "" {
					line += "  (" + e.Message + ")"
				}
				fmt.Println(strings.TrimRight(line, " "))
			}
			return nil
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Delete the cached token, persisted state, and history journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if err := auth.Logout(cfg); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			for _, name := range []string{config.StateFileName, config.HistoryDBName} {
				if err := os.Remove(filepath.Join(configDir, name)); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove %s: %w", name, err)
				}
			}

			fmt.Println("State has been reset successfully")
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)
			fmt.Printf("Token: %s\n", cfg.TokenPath())
			fmt.Printf("History: %s\n", cfg.HistoryDBPath())
			fmt.Printf("Log: %s\n", log.Path())

			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of taskdeck",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taskdeck version %s\n", version)
		},
	}
)

// newJournal opens the sqlite journal, degrading to a no-op logger when the
// journal is disabled or cannot be opened.
func newJournal(cfg *config.Config) history.Logger {
	if !cfg.IsHistoryEnabled() {
		return history.NopLogger()
	}
	journal, err := history.NewSQLiteLogger(cfg.HistoryDBPath())
	if err != nil {
		log.WarningLog.Printf("failed to open history journal: %v", err)
		return history.NopLogger()
	}
	return journal
}

func init() {
	rootCmd.Flags().StringVarP(&projectFlag, "project", "p", "",
		"Project (task list) to open at startup, overriding the config default")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 50, "Maximum number of entries to print")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
