// Package dice evaluates dice expressions such as "2d6+1d4+3"
package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// InvalidMessage is the breakdown reported for expressions with no usable term
const InvalidMessage = "invalid"

// maxDicePerTerm bounds a single term so "99999d6" cannot stall the caller
const maxDicePerTerm = 1000

var (
	// Regex for a single dice term like "2d6", "1d20", "10d8"
	diceTermRegex = regexp.MustCompile(`^(\d+)d(\d+)$`)
)

// Group is the outcome of one dice term
type Group struct {
	Notation string
	Count    int
	Size     int
	Rolls    []int
	Subtotal int
}

// Result is the outcome of evaluating an expression
type Result struct {
	Expression string
	Groups     []Group
	Modifier   int
	Total      int
	Breakdown  string
	Valid      bool
}

// Evaluator rolls dice expressions using an rpg-toolkit roller
type Evaluator struct {
	roller dice.Roller
}

// NewEvaluator creates an evaluator. A nil roller uses the toolkit default.
func NewEvaluator(roller dice.Roller) *Evaluator {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &Evaluator{roller: roller}
}

// Evaluate rolls expr with the toolkit's default roller
func Evaluate(expr string) Result {
	return NewEvaluator(nil).Evaluate(expr)
}

// Evaluate parses and rolls expr. Terms are separated by "+" (a "-" starts a
// negative modifier term). Dice terms look like NdM; every other term must be
// an integer modifier. Terms that are neither are ignored, and an expression
// with no usable term yields a zero total and the InvalidMessage breakdown.
// Evaluate never returns an error.
func (e *Evaluator) Evaluate(expr string) Result {
	result := Result{Expression: expr}

	terms := splitTerms(expr)
	parsed := 0
	for _, term := range terms {
		if matches := diceTermRegex.FindStringSubmatch(term); matches != nil {
			group, ok := e.rollTerm(term, matches[1], matches[2])
			if !ok {
				continue
			}
			result.Groups = append(result.Groups, group)
			result.Total += group.Subtotal
			parsed++
			continue
		}

		mod, err := strconv.Atoi(term)
		if err != nil {
			continue
		}
		result.Modifier += mod
		result.Total += mod
		parsed++
	}

	if parsed == 0 {
		return Result{Expression: expr, Breakdown: InvalidMessage}
	}

	result.Valid = true
	result.Breakdown = breakdown(result)
	return result
}

func (e *Evaluator) rollTerm(term, countStr, sizeStr string) (Group, bool) {
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 || count > maxDicePerTerm {
		return Group{}, false
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return Group{}, false
	}

	rolls, err := e.roller.RollN(count, size)
	if err != nil {
		return Group{}, false
	}

	group := Group{Notation: term, Count: count, Size: size, Rolls: rolls}
	for _, r := range rolls {
		group.Subtotal += r
	}
	return group, true
}

func splitTerms(expr string) []string {
	normalized := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	normalized = strings.ReplaceAll(normalized, "-", "+-")

	var terms []string
	for _, t := range strings.Split(normalized, "+") {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// breakdown renders e.g. "2d6[3, 5] + 1d4[2] + 3 = 13"
func breakdown(r Result) string {
	var b strings.Builder
	for i, g := range r.Groups {
		if i > 0 {
			b.WriteString(" + ")
		}
		rolls := make([]string, len(g.Rolls))
		for j, v := range g.Rolls {
			rolls[j] = strconv.Itoa(v)
		}
		fmt.Fprintf(&b, "%s[%s]", g.Notation, strings.Join(rolls, ", "))
	}

	if r.Modifier != 0 || len(r.Groups) == 0 {
		switch {
		case len(r.Groups) == 0:
			fmt.Fprintf(&b, "%d", r.Modifier)
		case r.Modifier < 0:
			fmt.Fprintf(&b, " - %d", -r.Modifier)
		default:
			fmt.Fprintf(&b, " + %d", r.Modifier)
		}
	}

	fmt.Fprintf(&b, " = %d", r.Total)
	return b.String()
}
