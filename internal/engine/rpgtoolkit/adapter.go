// Package rpgtoolkit provides the concrete implementation of the engine interface using rpg-toolkit modules.
package rpgtoolkit

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	sheetdice "github.com/KirkDiggler/rpg-sheet/internal/engine/dice"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Adapter implements the engine.Engine interface using rpg-toolkit
type Adapter struct {
	evaluator *sheetdice.Evaluator
}

// AdapterConfig contains configuration for creating a new Adapter
type AdapterConfig struct {
	DiceRoller dice.Roller
}

// Validate checks that all required dependencies are provided
func (c *AdapterConfig) Validate() error {
	if c.DiceRoller == nil {
		return errors.InvalidArgument("dice roller is required")
	}
	return nil
}

// NewAdapter creates a new rpg-toolkit engine adapter
func NewAdapter(cfg *AdapterConfig) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid adapter config")
	}

	return &Adapter{
		evaluator: sheetdice.NewEvaluator(cfg.DiceRoller),
	}, nil
}

var _ engine.Engine = (*Adapter)(nil)

// CalculateSheet derives every computed value for a character
func (a *Adapter) CalculateSheet(
	_ context.Context,
	input *engine.CalculateSheetInput,
) (*engine.CalculateSheetOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	return &engine.CalculateSheetOutput{
		Sheet: stats.Derive(input.Character),
	}, nil
}

// RollDice evaluates a dice expression
func (a *Adapter) RollDice(
	ctx context.Context,
	input *engine.RollDiceInput,
) (*engine.RollDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	result := a.evaluator.Evaluate(input.Expression)
	if !result.Valid {
		slog.DebugContext(ctx, "unparseable dice expression",
			"expression", input.Expression)
	}

	return &engine.RollDiceOutput{Result: result}, nil
}

// SpendHitDie rolls one hit die and heals the character in place
func (a *Adapter) SpendHitDie(
	ctx context.Context,
	input *engine.SpendHitDieInput,
) (*engine.SpendHitDieOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	roll, err := stats.SpendHitDie(input.Character, a.evaluator)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to spend hit die for character %s", input.Character.ID)
	}

	slog.DebugContext(ctx, "spent hit die",
		"character_id", input.Character.ID,
		"total", roll.Roll.Total,
		"healed", roll.Healed)

	return &engine.SpendHitDieOutput{
		Roll:   roll.Roll,
		Healed: roll.Healed,
	}, nil
}
