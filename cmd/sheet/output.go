package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
)

// reportError prints the outermost message, the details carried in the
// error's metadata and then the underlying cause.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", errors.GetMessage(err))

	meta := errors.GetMeta(err)
	if fields, ok := meta["validation_errors"].(map[string][]string); ok {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(fields[name], ", "))
		}
	}
	if id, ok := meta["character_id"].(string); ok {
		fmt.Fprintf(w, "  character: %s\n", id)
	}

	var appErr *errors.Error
	if errors.As(err, &appErr) && appErr.Cause != nil {
		fmt.Fprintf(w, "  cause: %v\n", appErr.Cause)
	}
}

func printHP(w io.Writer, state sheet.State) {
	hp := state.Character.HP
	fmt.Fprintf(w, "%s: HP %d/%d", state.Character.Name, hp.Current, hp.Max)
	if hp.Temporary > 0 {
		fmt.Fprintf(w, " (+%d temp)", hp.Temporary)
	}
	fmt.Fprintf(w, ", hit dice %d/%d\n", state.Sheet.HitDiceRemaining, state.Character.Level)
}

func printSheet(w io.Writer, state sheet.State) {
	c := state.Character
	s := state.Sheet

	fmt.Fprintf(w, "%s  (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "Level %d %s %s %s\n", c.Level, c.Race, c.Class, c.Subclass)
	fmt.Fprintln(w, strings.Repeat("=", 40))

	fmt.Fprintf(w, "AC %d   Initiative %s   Speed %d   Proficiency %s\n",
		s.ArmorClass, stats.FormatModifier(s.Initiative), c.Speed, stats.FormatModifier(s.ProficiencyBonus))
	printHP(w, state)
	if s.DeathState != stats.DeathPending || c.DeathSaves.Successes+c.DeathSaves.Failures > 0 {
		fmt.Fprintf(w, "Death saves %d/%d (%s)\n", c.DeathSaves.Successes, c.DeathSaves.Failures, s.DeathState)
	}

	fmt.Fprintln(w)
	for _, a := range dnd5e.AllAbilities() {
		save := " "
		if c.SavingThrows.Proficient(a) {
			save = "*"
		}
		fmt.Fprintf(w, "%s %2d (%s)  save %s%s\n",
			a.Short(), c.AbilityScores.Get(a), stats.FormatModifier(s.Modifiers[a]),
			stats.FormatModifier(s.SavingThrows[a]), save)
	}

	fmt.Fprintln(w)
	for _, skill := range s.Skills {
		mark := " "
		switch {
		case skill.Expertise:
			mark = "E"
		case skill.Proficient:
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-16s %s  (%s)\n", mark, skill.Name, stats.FormatModifier(skill.Bonus), skill.Ability.Short())
	}
	fmt.Fprintf(w, "Passive Perception %d\n", s.PassivePerception)

	if s.HasSpellcasting {
		fmt.Fprintf(w, "\nSpell save DC %d   Spell attack %s\n", s.SpellSaveDC, stats.FormatModifier(s.SpellAttackBonus))
	}
}
