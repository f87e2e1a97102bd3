package stats

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
)

// DeathState is the outcome of the death save counters
type DeathState string

// Death states
const (
	DeathPending    DeathState = "pending"
	DeathStabilized DeathState = "stabilized"
	DeathDead       DeathState = "dead"
)

// criticalIncrement models a natural 20 (success) or natural 1 (failure)
const criticalIncrement = 2

// IsTerminal reports whether further saves are locked until a reset
func (s DeathState) IsTerminal() bool {
	return s == DeathStabilized || s == DeathDead
}

// DeathSaveState returns the state for the counters. Successes are checked
// first, so a corrupt record with both counters at 3 reads as stabilized.
func DeathSaveState(ds dnd5e.DeathSaves) DeathState {
	switch {
	case ds.Successes >= dnd5e.MaxDeathSaves:
		return DeathStabilized
	case ds.Failures >= dnd5e.MaxDeathSaves:
		return DeathDead
	default:
		return DeathPending
	}
}

// RecordDeathSave adds one success or failure, two when critical, clamped to
// 3. Once the counters reach a terminal state they are returned unchanged.
func RecordDeathSave(ds dnd5e.DeathSaves, success, critical bool) dnd5e.DeathSaves {
	if DeathSaveState(ds).IsTerminal() {
		return ds
	}

	step := 1
	if critical {
		step = criticalIncrement
	}

	if success {
		ds.Successes = min(ds.Successes+step, dnd5e.MaxDeathSaves)
	} else {
		ds.Failures = min(ds.Failures+step, dnd5e.MaxDeathSaves)
	}
	return ds
}

// ResetDeathSaves zeroes both counters and clears any terminal state
func ResetDeathSaves() dnd5e.DeathSaves {
	return dnd5e.DeathSaves{}
}
