package dnd5e

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode parses a stored record and heals it to the current schema
func Decode(data []byte) (*Character, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode character: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode character: record is null")
	}
	return HealMap(raw)
}

// HealCharacter heals an already typed record. Zero values that JSON would
// omit are not treated as missing; only nil collections are back-filled.
func HealCharacter(c *Character) (*Character, error) {
	if c == nil {
		return nil, fmt.Errorf("heal character: record is nil")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("heal character: %w", err)
	}
	return Decode(data)
}

// HealMap merges factory defaults under a stored key/value tree so that every
// field the calculator depends on is present regardless of schema age.
//
// Rules:
//   - a key that is absent or null takes the default
//   - nested objects merge key by key (abilityScores, hp, spellSlots, ...)
//   - arrays present in the record are kept as stored
//   - companions and equipment entries merge against their own defaults
//   - standard skills missing from the list are appended
//
// Provided values are never replaced, except where an invariant would break:
// level below 1, expertise without proficiency, death saves outside [0,3],
// and used counters above their maximum.
func HealMap(raw map[string]any) (*Character, error) {
	defaults, err := toTree(NewCharacter("", 0))
	if err != nil {
		return nil, err
	}
	merged := mergeDefaults(defaults, raw)

	companionDefaults, err := toTree(NewCompanion(""))
	if err != nil {
		return nil, err
	}
	mergeEach(merged, "companions", companionDefaults)

	itemDefaults, err := toTree(newItemDefaults())
	if err != nil {
		return nil, err
	}
	mergeEach(merged, "equipment", itemDefaults)

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("heal character: %w", err)
	}

	var c Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("heal character: %w", err)
	}

	appendMissingSkills(&c)
	enforceInvariants(&c)
	c.SchemaVersion = SchemaVersion

	return &c, nil
}

// ToTree converts a record into the plain key/value tree document stores keep
func ToTree(c *Character) (map[string]any, error) {
	return toTree(c)
}

func toTree(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	return tree, nil
}

func mergeDefaults(defaults, loaded map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(loaded))
	for k, v := range loaded {
		if v != nil {
			out[k] = v
		}
	}

	for k, def := range defaults {
		cur, ok := out[k]
		if !ok {
			out[k] = def
			continue
		}
		defMap, defIsMap := def.(map[string]any)
		curMap, curIsMap := cur.(map[string]any)
		if defIsMap && curIsMap {
			out[k] = mergeDefaults(defMap, curMap)
		}
	}

	return out
}

func mergeEach(tree map[string]any, key string, defaults map[string]any) {
	list, ok := tree[key].([]any)
	if !ok {
		return
	}
	for i, entry := range list {
		if m, ok := entry.(map[string]any); ok {
			list[i] = mergeDefaults(defaults, m)
		}
	}
}

func appendMissingSkills(c *Character) {
	have := make(map[string]bool, len(c.Skills))
	for _, s := range c.Skills {
		have[strings.ToLower(s.Name)] = true
	}
	for _, s := range StandardSkills() {
		if !have[strings.ToLower(s.Name)] {
			c.Skills = append(c.Skills, s)
		}
	}
}

func enforceInvariants(c *Character) {
	if c.Level < MinLevel {
		c.Level = MinLevel
	}

	for i := range c.Skills {
		if c.Skills[i].Expertise {
			c.Skills[i].Proficient = true
		}
	}

	c.DeathSaves.Successes = clamp(c.DeathSaves.Successes, 0, MaxDeathSaves)
	c.DeathSaves.Failures = clamp(c.DeathSaves.Failures, 0, MaxDeathSaves)
	c.HitDice.Used = clamp(c.HitDice.Used, 0, c.Level)

	for level, pool := range c.SpellSlots {
		if pool.Max < 0 {
			pool.Max = 0
		}
		pool.Used = clamp(pool.Used, 0, pool.Max)
		c.SpellSlots[level] = pool
	}

	for i := range c.CustomResources {
		r := &c.CustomResources[i]
		if r.Max < 0 {
			r.Max = 0
		}
		r.Used = clamp(r.Used, 0, r.Max)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
