package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
)

var (
	damageTemp bool
	restShort  bool
)

var rollCmd = &cobra.Command{
	Use:   "roll [expression]",
	Short: "Roll a dice expression such as 2d6+3",
	Long: `Roll dice and see each group. Examples:

  roll 1d20+5
  roll 2d6+1d4+3
  roll 4d6`,
	Args: cobra.ExactArgs(1),
	RunE: runRoll,
}

var damageCmd = &cobra.Command{
	Use:   "damage [character-id] [amount]",
	Short: "Apply damage, temporary HP first",
	Args:  cobra.ExactArgs(2),
	RunE:  runDamage,
}

var healCmd = &cobra.Command{
	Use:   "heal [character-id] [amount]",
	Short: "Heal up to max HP",
	Args:  cobra.ExactArgs(2),
	RunE:  runHeal,
}

var hitDieCmd = &cobra.Command{
	Use:   "hit-die [character-id]",
	Short: "Spend one hit die to heal",
	Args:  cobra.ExactArgs(1),
	RunE:  runHitDie,
}

var restCmd = &cobra.Command{
	Use:   "rest [character-id]",
	Short: "Take a long rest (or --short)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRest,
}

func init() {
	damageCmd.Flags().BoolVar(&damageTemp, "temp", false, "Set temporary HP to amount instead of dealing damage")
	restCmd.Flags().BoolVar(&restShort, "short", false, "Short rest: recharge short-rest resources only")
}

func runRoll(cmd *cobra.Command, args []string) error {
	out, err := deps.engine.RollDice(rootCtx, &engine.RollDiceInput{Expression: args[0]})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if !out.Result.Valid {
		fmt.Fprintf(w, "%s: %s\n", args[0], out.Result.Breakdown)
		return errors.InvalidArgumentf("invalid dice expression %q", args[0])
	}
	fmt.Fprintf(w, "%s = %d  (%s)\n", out.Result.Expression, out.Result.Total, out.Result.Breakdown)
	return nil
}

func runDamage(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	m := sheet.Damage(amount)
	if damageTemp {
		m = sheet.SetTemporaryHP(amount)
	}
	return editCharacter(cmd, args[0], m)
}

func runHeal(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	return editCharacter(cmd, args[0], sheet.Heal(amount))
}

func runRest(cmd *cobra.Command, args []string) error {
	if restShort {
		return editCharacter(cmd, args[0], sheet.ShortRest())
	}
	return editCharacter(cmd, args[0], sheet.LongRest())
}

func runHitDie(cmd *cobra.Command, args []string) error {
	c, err := loadSheet(args[0])
	if err != nil {
		return err
	}
	defer c.Close()

	out, state, err := c.SpendHitDie(rootCtx)
	if err != nil {
		return err
	}
	if err := c.Flush(rootCtx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rolled %s = %d, healed %d\n", out.Roll.Expression, out.Roll.Total, out.Healed)
	printHP(cmd.OutOrStdout(), state)
	return nil
}

// editCharacter applies m through a sheet container and saves before exit
func editCharacter(cmd *cobra.Command, id string, m sheet.Mutation) error {
	c, err := loadSheet(id)
	if err != nil {
		return err
	}
	defer c.Close()

	state, err := c.Update(rootCtx, m)
	if err != nil {
		return err
	}
	if err := c.Flush(rootCtx); err != nil {
		return err
	}

	printHP(cmd.OutOrStdout(), state)
	return nil
}

func loadSheet(id string) (*sheet.Container, error) {
	got, err := deps.service.Get(rootCtx, &character.GetInput{ID: id})
	if err != nil {
		return nil, err
	}
	return openSheet(got.Character)
}

func openSheet(char *dnd5e.Character) (*sheet.Container, error) {
	return sheet.New(rootCtx, &sheet.Config{
		Engine:        deps.engine,
		Service:       deps.service,
		Character:     char,
		AutosaveDelay: cfg.AutosaveDelay,
	})
}

func parseAmount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, errors.InvalidArgumentf("amount must be a non-negative integer: %q", s)
	}
	return n, nil
}
