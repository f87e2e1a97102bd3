package sheet_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/dice"
	enginemock "github.com/KirkDiggler/rpg-sheet/internal/engine/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/stats"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	charrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	"github.com/KirkDiggler/rpg-sheet/internal/services/character"
	"github.com/KirkDiggler/rpg-sheet/internal/services/identity"
	charactermock "github.com/KirkDiggler/rpg-sheet/internal/services/character/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/mocks"
)

type ContainerTestSuite struct {
	suite.Suite
	ctx         context.Context
	ctrl        *gomock.Controller
	mockEngine  *enginemock.MockEngine
	mockService *charactermock.MockService
	char        *dnd5e.Character
}

func (s *ContainerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockEngine = enginemock.NewMockEngine(s.ctrl)
	s.mockService = charactermock.NewMockService(s.ctrl)
	s.char = builders.NewCharacterBuilder().
		WithID("temp_1").
		WithLastUpdated(100).
		Build()

	mocks.ExpectSheetDerivation(s.mockEngine)
}

func (s *ContainerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestContainerSuite(t *testing.T) {
	suite.Run(t, new(ContainerTestSuite))
}

func (s *ContainerTestSuite) newContainer(delay time.Duration) *sheet.Container {
	c, err := sheet.New(s.ctx, &sheet.Config{
		Engine:        s.mockEngine,
		Service:       s.mockService,
		Character:     s.char,
		AutosaveDelay: delay,
	})
	s.Require().NoError(err)
	s.T().Cleanup(c.Close)
	return c
}

func (s *ContainerTestSuite) TestNew_Validation() {
	_, err := sheet.New(s.ctx, &sheet.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = sheet.New(s.ctx, &sheet.Config{
		Engine:        s.mockEngine,
		Service:       s.mockService,
		Character:     s.char,
		AutosaveDelay: -time.Second,
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ContainerTestSuite) TestNew_DerivesInitialSheet() {
	s.char.AbilityScores.Dexterity = 14
	c := s.newContainer(time.Hour)

	state := c.State()
	s.Equal(12, state.Sheet.ArmorClass)
	s.Equal(2, state.Sheet.Initiative)
	s.False(state.Dirty)
}

func (s *ContainerTestSuite) TestUpdate_RederivesAndNotifies() {
	c := s.newContainer(time.Hour)

	var seen []sheet.State
	cancel := c.Subscribe(func(st sheet.State) { seen = append(seen, st) })
	defer cancel()

	state, err := c.Update(s.ctx, sheet.SetAbilityScore(dnd5e.AbilityDexterity, 16))
	s.Require().NoError(err)
	s.Equal(13, state.Sheet.ArmorClass)
	s.Equal(3, state.Sheet.Initiative)
	s.True(state.Dirty)

	s.Require().Len(seen, 1)
	s.Equal(16, seen[0].Character.AbilityScores.Dexterity)
}

func (s *ContainerTestSuite) TestUpdate_SwapArmor() {
	s.char = testutils.CreateTestFighter("fighter")
	c := s.newContainer(time.Hour)
	s.Equal(18, c.State().Sheet.ArmorClass, "chain mail 16 + shield 2")

	state, err := c.Update(s.ctx, sheet.ToggleEquipped("leather"))
	s.Require().NoError(err)
	s.Equal(15, state.Sheet.ArmorClass, "leather 11 + dex 2 + shield 2")

	_, err = c.Update(s.ctx, sheet.ToggleEquipped("missing"))
	s.True(errors.IsNotFound(err))
}

func (s *ContainerTestSuite) TestUpdate_DamageAbsorbsTemporaryHP() {
	s.char.HP = dnd5e.HP{Current: 10, Max: 10, Temporary: 3}
	c := s.newContainer(time.Hour)

	state, err := c.Update(s.ctx, sheet.Damage(5))
	s.Require().NoError(err)
	s.Equal(dnd5e.HP{Current: 8, Max: 10, Temporary: 0}, state.Character.HP)

	state, err = c.Update(s.ctx, sheet.Heal(5))
	s.Require().NoError(err)
	s.Equal(10, state.Character.HP.Current)
}

func (s *ContainerTestSuite) TestUpdate_FailedMutationDiscarded() {
	c := s.newContainer(time.Hour)

	_, err := c.Update(s.ctx, sheet.Combine(
		sheet.Rename("Half Done"),
		sheet.UseResource("missing"),
	))
	s.True(errors.IsNotFound(err))

	state := c.State()
	s.Equal("New Character", state.Character.Name)
	s.False(state.Dirty)
	s.NoError(c.Flush(s.ctx), "nothing to save")
}

func (s *ContainerTestSuite) TestUpdate_EngineFailureDiscarded() {
	ctrl := gomock.NewController(s.T())
	failing := enginemock.NewMockEngine(ctrl)
	gomock.InOrder(
		failing.EXPECT().CalculateSheet(gomock.Any(), gomock.Any()).
			Return(&engine.CalculateSheetOutput{}, nil),
		failing.EXPECT().CalculateSheet(gomock.Any(), gomock.Any()).
			Return(nil, errors.Internal("engine down")),
	)

	c, err := sheet.New(s.ctx, &sheet.Config{Engine: failing, Service: s.mockService, Character: s.char})
	s.Require().NoError(err)
	defer c.Close()

	_, err = c.Update(s.ctx, sheet.Rename("Lost"))
	s.Require().Error(err)
	s.Equal("New Character", c.State().Character.Name)
}

func (s *ContainerTestSuite) TestState_IsACopy() {
	c := s.newContainer(time.Hour)

	state := c.State()
	state.Character.Name = "Tampered"
	state.Character.Skills[0].Proficient = true

	fresh := c.State()
	s.Equal("New Character", fresh.Character.Name)
	s.False(fresh.Character.Skills[0].Proficient)
}

func (s *ContainerTestSuite) TestFlush_SavesLatestAndAdoptsID() {
	c := s.newContainer(time.Hour)

	mocks.ExpectSave(s.mockService, "char_1", 500).
		Do(func(_ context.Context, input *character.SaveInput) {
			s.Equal("Third", input.Character.Name)
		})

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := c.Update(s.ctx, sheet.Rename(name))
		s.Require().NoError(err)
	}

	s.Require().NoError(c.Flush(s.ctx))

	state := c.State()
	s.Equal("char_1", state.Character.ID)
	s.Equal(int64(500), state.Character.LastUpdated)
	s.False(state.Dirty)

	s.Require().NoError(c.Flush(s.ctx), "second flush has nothing to do")
}

func (s *ContainerTestSuite) TestFlush_ErrorKeepsDirty() {
	c := s.newContainer(time.Hour)

	s.mockService.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("offline"))

	_, err := c.Update(s.ctx, sheet.Rename("Unsaved"))
	s.Require().NoError(err)

	s.Require().Error(c.Flush(s.ctx))
	s.True(c.State().Dirty)
}

func (s *ContainerTestSuite) TestAutosave_CollapsesBurst() {
	c := s.newContainer(20 * time.Millisecond)

	var saves int32
	mocks.ExpectSave(s.mockService, "char_1", 500).
		Do(func(_ context.Context, input *character.SaveInput) {
			atomic.AddInt32(&saves, 1)
			s.Equal(5, input.Character.Level)
		})

	for level := 2; level <= 5; level++ {
		_, err := c.Update(s.ctx, sheet.SetLevel(level))
		s.Require().NoError(err)
	}

	s.Eventually(func() bool { return !c.State().Dirty }, time.Second, 5*time.Millisecond)
	s.Equal(int32(1), atomic.LoadInt32(&saves))
}

// slowStore delays every write so autosaves overlap
type slowStore struct {
	charrepo.Store
	delay time.Duration
}

func (st *slowStore) Put(ctx context.Context, char *dnd5e.Character) error {
	time.Sleep(st.delay)
	return st.Store.Put(ctx, char)
}

func (s *ContainerTestSuite) TestAutosave_OverlappingSavesKeepOneRecord() {
	local, _ := testutils.CreateTestLocalStore(s.T())
	svc, err := character.NewService(&character.Config{
		Local:    &slowStore{Store: local, delay: 100 * time.Millisecond},
		Identity: identity.NewStatic(identity.Anonymous),
		IDGen:    idgen.NewSequential("char"),
	})
	s.Require().NoError(err)
	s.T().Cleanup(svc.Close)

	c, err := sheet.New(s.ctx, &sheet.Config{
		Engine:        s.mockEngine,
		Service:       svc,
		Character:     s.char,
		AutosaveDelay: 10 * time.Millisecond,
	})
	s.Require().NoError(err)
	s.T().Cleanup(c.Close)

	_, err = c.Update(s.ctx, sheet.Rename("A"))
	s.Require().NoError(err)
	time.Sleep(30 * time.Millisecond)
	_, err = c.Update(s.ctx, sheet.Rename("B"))
	s.Require().NoError(err)

	s.Eventually(func() bool { return !c.State().Dirty }, 2*time.Second, 10*time.Millisecond)

	stored, err := local.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal("B", stored[0].Name)
	s.Equal("char_1", stored[0].ID)
	s.Equal(stored[0].ID, c.State().Character.ID)
}

func (s *ContainerTestSuite) TestClose_DropsPendingSave() {
	c := s.newContainer(10 * time.Millisecond)

	_, err := c.Update(s.ctx, sheet.Rename("Never Saved"))
	s.Require().NoError(err)

	c.Close()
	time.Sleep(30 * time.Millisecond)

	_, err = c.Update(s.ctx, sheet.Rename("Too Late"))
	s.True(errors.IsFailedPrecondition(err))
}

func (s *ContainerTestSuite) TestSpendHitDie() {
	s.char.Level = 3
	s.char.HP = dnd5e.HP{Current: 2, Max: 20}
	c := s.newContainer(time.Hour)

	s.mockEngine.EXPECT().
		SpendHitDie(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *engine.SpendHitDieInput) (*engine.SpendHitDieOutput, error) {
			input.Character.HP.Current += 6
			input.Character.HitDice.Used++
			return &engine.SpendHitDieOutput{Roll: dice.Result{Total: 6, Valid: true}, Healed: 6}, nil
		})

	out, state, err := c.SpendHitDie(s.ctx)
	s.Require().NoError(err)
	s.Equal(6, out.Healed)
	s.Equal(8, state.Character.HP.Current)
	s.Equal(2, state.Sheet.HitDiceRemaining)
}

func (s *ContainerTestSuite) TestDeathSaves_LockAndReset() {
	c := s.newContainer(time.Hour)

	for i := 0; i < 3; i++ {
		_, err := c.Update(s.ctx, sheet.RecordDeathSave(true, false))
		s.Require().NoError(err)
	}
	state, err := c.Update(s.ctx, sheet.RecordDeathSave(false, true))
	s.Require().NoError(err)
	s.Equal(stats.DeathStabilized, state.Sheet.DeathState)
	s.Equal(0, state.Character.DeathSaves.Failures, "terminal state ignores further saves")

	state, err = c.Update(s.ctx, sheet.ResetDeathSaves())
	s.Require().NoError(err)
	s.Equal(stats.DeathPending, state.Sheet.DeathState)
}
