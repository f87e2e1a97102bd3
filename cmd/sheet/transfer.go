package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
)

var (
	exportOut string
	clearYes  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every character as one JSON document",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace all characters with an exported document (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every character in the active store",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy local characters to the signed-in user's remote store",
	Long: `Migrate uploads every local character that is newer than its remote copy, then
clears the local store. Requires --uid and a remote store.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deleting everything")
}

func runExport(cmd *cobra.Command, _ []string) error {
	out, err := deps.service.Export(rootCtx, &character.ExportInput{
		Settings: map[string]any{"autosaveDelay": cfg.AutosaveDelay.String()},
	})
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = cmd.OutOrStdout().Write(append(out.Data, '\n'))
		return err
	}

	if err := os.WriteFile(exportOut, out.Data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", exportOut)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d characters to %s\n", len(out.Document.Characters), exportOut)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	out, err := deps.service.Import(rootCtx, &character.ImportInput{Data: data})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d characters\n", out.Imported)
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		return errors.FailedPrecondition("refusing to delete every character without --yes")
	}

	if _, err := deps.service.ClearAll(rootCtx, &character.ClearAllInput{}); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Cleared all characters")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	out, err := deps.service.Migrate(rootCtx, &character.MigrateInput{})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d of %d (skipped %d, failed %d, images dropped %d)\n",
		out.Migrated, out.Total, out.Skipped, out.Failed, out.ImagesDropped)
	if len(out.FailedIDs) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Not migrated: %s\n", strings.Join(out.FailedIDs, ", "))
	}
	return nil
}
