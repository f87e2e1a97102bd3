package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
)

var (
	newName  string
	newClass string
	newLevel int
	showJSON bool
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create and save a default character",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

var showCmd = &cobra.Command{
	Use:   "show [character-id]",
	Short: "Show a character with its derived stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List characters in the active store, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var saveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save one character from a JSON file (- for stdin)",
	Long: `Save upserts one character record. Missing fields are filled with defaults and
the record is stamped with a fresh lastUpdated.`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [character-id]",
	Short: "Delete a character",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	newCmd.Flags().StringVar(&newName, "name", "", "Character name")
	newCmd.Flags().StringVar(&newClass, "class", "", "Class, also sets the hit die")
	newCmd.Flags().IntVar(&newLevel, "level", dnd5e.MinLevel, "Starting level")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the stored record as JSON")
}

func runNew(cmd *cobra.Command, _ []string) error {
	created, err := deps.service.CreateDefault(rootCtx, &character.CreateDefaultInput{})
	if err != nil {
		return err
	}

	char := created.Character
	var mutations []sheet.Mutation
	if newName != "" {
		mutations = append(mutations, sheet.Rename(newName))
	}
	mutations = append(mutations, sheet.SetLevel(newLevel))
	if err := sheet.Combine(mutations...)(char); err != nil {
		return err
	}
	if newClass != "" {
		char.Class = newClass
		char.HitDice.Total = fmt.Sprintf("%d%s", char.Level, dnd5e.HitDieFor(newClass))
	}

	saved, err := deps.service.Save(rootCtx, &character.SaveInput{Character: char})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", saved.Character.Name, saved.Character.ID)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	got, err := deps.service.Get(rootCtx, &character.GetInput{ID: args[0]})
	if err != nil {
		return err
	}

	if showJSON {
		return writeJSON(cmd.OutOrStdout(), got.Character)
	}

	c, err := openSheet(got.Character)
	if err != nil {
		return err
	}
	defer c.Close()

	printSheet(cmd.OutOrStdout(), c.State())
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	out, err := deps.service.List(rootCtx, &character.ListInput{})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(out.Characters) == 0 {
		fmt.Fprintln(w, "No characters")
		return nil
	}
	for _, c := range out.Characters {
		fmt.Fprintf(w, "%-38s  %-24s  level %2d %s\n", c.ID, c.Name, c.Level, c.Class)
	}
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	char, err := dnd5e.Decode(data)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid character file")
	}

	saved, err := deps.service.Save(rootCtx, &character.SaveInput{Character: char})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", saved.Character.Name, saved.Character.ID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if _, err := deps.service.Delete(rootCtx, &character.DeleteInput{ID: args[0]}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read input")
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
