// Package main is the entry point for the rpg-sheet command line
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-sheet",
	Short: "D&D 5e character sheet manager",
	Long: `rpg-sheet keeps D&D 5e character sheets on this device and, once signed in,
in a remote store. Settings come from SHEET_* environment variables; flags override them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func main() {
	err := rootCmd.Execute()
	teardown()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(errors.GetCode(err).ExitCode())
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLocalPath, "local-path", "", "Local database path (SHEET_LOCAL_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagUID, "uid", "", "Sign in as this user (SHEET_UID)")
	rootCmd.PersistentFlags().StringVar(&flagRemote, "remote", "", "Remote store: none, redis or firestore (SHEET_REMOTE)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (SHEET_LOG_LEVEL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for each command")

	// Character records
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(deleteCmd)

	// Bulk transfer
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(migrateCmd)

	// Play
	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(damageCmd)
	rootCmd.AddCommand(healCmd)
	rootCmd.AddCommand(hitDieCmd)
	rootCmd.AddCommand(restCmd)
}
