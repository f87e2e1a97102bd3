package rpgtoolkit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// scriptedRoller hands out queued rolls in order
type scriptedRoller struct {
	rolls []int
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	if len(r.rolls) == 0 {
		return 0, errors.Internalf("no scripted roll left for d%d", size)
	}
	v := r.rolls[0]
	r.rolls = r.rolls[1:]
	return v, nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type AdapterTestSuite struct {
	suite.Suite
	roller  *scriptedRoller
	adapter *rpgtoolkit.Adapter
	ctx     context.Context
}

func (s *AdapterTestSuite) SetupTest() {
	s.roller = &scriptedRoller{}
	s.ctx = context.Background()

	adapter, err := rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{
		DiceRoller: s.roller,
	})
	s.Require().NoError(err)
	s.adapter = adapter
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}

func (s *AdapterTestSuite) TestNewAdapter_RequiresRoller() {
	_, err := rpgtoolkit.NewAdapter(&rpgtoolkit.AdapterConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = rpgtoolkit.NewAdapter(nil)
	s.Require().Error(err)
}

func (s *AdapterTestSuite) TestCalculateSheet() {
	char := dnd5e.NewCharacter("char-1", 1)
	char.AbilityScores.Dexterity = 14

	out, err := s.adapter.CalculateSheet(s.ctx, &engine.CalculateSheetInput{Character: char})
	s.Require().NoError(err)
	s.Equal(12, out.Sheet.ArmorClass)
	s.Equal(2, out.Sheet.Initiative)

	_, err = s.adapter.CalculateSheet(s.ctx, &engine.CalculateSheetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *AdapterTestSuite) TestRollDice() {
	s.roller.rolls = []int{3, 5}

	out, err := s.adapter.RollDice(s.ctx, &engine.RollDiceInput{Expression: "2d6+3"})
	s.Require().NoError(err)
	s.True(out.Result.Valid)
	s.Equal(11, out.Result.Total)
	s.Equal("2d6[3, 5] + 3 = 11", out.Result.Breakdown)
}

func (s *AdapterTestSuite) TestRollDice_Invalid() {
	out, err := s.adapter.RollDice(s.ctx, &engine.RollDiceInput{Expression: "banana"})
	s.Require().NoError(err)
	s.False(out.Result.Valid)
	s.Equal(0, out.Result.Total)
	s.Equal("invalid", out.Result.Breakdown)
}

func (s *AdapterTestSuite) TestSpendHitDie() {
	char := dnd5e.NewCharacter("char-1", 1)
	char.HP = dnd5e.HP{Current: 2, Max: 10}
	s.roller.rolls = []int{5}

	out, err := s.adapter.SpendHitDie(s.ctx, &engine.SpendHitDieInput{Character: char})
	s.Require().NoError(err)
	s.Equal(5, out.Healed)
	s.Equal(7, char.HP.Current)
	s.Equal(1, char.HitDice.Used)

	_, err = s.adapter.SpendHitDie(s.ctx, &engine.SpendHitDieInput{Character: char})
	s.True(errors.IsFailedPrecondition(err))
}
