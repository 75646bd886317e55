package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
)

// Evaluation is the scored result of a submitted scenario decision
type Evaluation struct {
	IsCorrect       bool    `json:"isCorrect"`
	ValueDifference float64 `json:"valueDifference"`
	Feedback        string  `json:"feedback"`
	OptimalAction   string  `json:"optimalAction"`
}

// Coarse action categories used to key the canned feedback commentary
type actionCategory int

const (
	categoryFold actionCategory = iota
	categoryCheck
	categoryCall
	categoryRaise
	categoryAllIn
	categoryOther
)

// Evaluate scores a chosen action against the scenario's authored reference
// data. Pure function: exact label match decides correctness, and the value
// difference is reported as authored, even when the data puts the optimal
// action below the chosen one.
func Evaluate(scenario *models.Scenario, chosenAction string) (Evaluation, error) {
	chosenValue, ok := scenario.Actions.Find(chosenAction)
	if !ok {
		return Evaluation{}, ErrInvalidAction
	}

	optimalValue, ok := scenario.Actions.Find(scenario.OptimalAction)
	if !ok {
		// Malformed authored data; the seeder validates against this.
		return Evaluation{}, fmt.Errorf("optimal action %q missing from scenario %d action list",
			scenario.OptimalAction, scenario.ID)
	}

	eval := Evaluation{
		IsCorrect:       chosenAction == scenario.OptimalAction,
		ValueDifference: chosenValue - optimalValue,
		OptimalAction:   scenario.OptimalAction,
	}
	eval.Feedback = buildFeedback(scenario, chosenAction, optimalValue, eval)
	return eval, nil
}

func buildFeedback(scenario *models.Scenario, chosenAction string, optimalValue float64, eval Evaluation) string {
	unit := "EV"
	if scenario.Type == models.ScenarioTypeICM {
		unit = "equity"
	}

	if eval.IsCorrect {
		return fmt.Sprintf("Excellent! %s is the optimal play with an %s of %+.2f.",
			chosenAction, unit, optimalValue)
	}

	feedback := fmt.Sprintf("%s loses %.2f %s compared to the optimal %s.",
		chosenAction, math.Abs(eval.ValueDifference), unit, scenario.OptimalAction)

	if hint, ok := categoryCommentary[commentaryKey{
		chosen:  categorize(chosenAction),
		optimal: categorize(scenario.OptimalAction),
	}]; ok {
		feedback += " " + hint
	}
	return feedback
}

type commentaryKey struct {
	chosen  actionCategory
	optimal actionCategory
}

// Static commentary keyed by the coarse (chosen, optimal) category pair.
// Illustrative text only, not derived analysis.
var categoryCommentary = map[commentaryKey]string{
	{categoryFold, categoryCall}:   "You're folding a profitable spot. Consider the pot odds and your equity.",
	{categoryFold, categoryRaise}:  "You're folding a profitable spot. Consider the pot odds and your equity.",
	{categoryFold, categoryAllIn}:  "Shoving wins the pot uncontested often enough to outweigh the risk at this stack depth.",
	{categoryCall, categoryRaise}:  "Raising would be more profitable here to build the pot with your strong hand.",
	{categoryCall, categoryAllIn}:  "Flat calling leaves chips behind; committing your stack maximizes fold equity.",
	{categoryRaise, categoryCall}:  "Your hand is strong enough to call but raising might fold out worse hands.",
	{categoryRaise, categoryFold}:  "This spot doesn't have the equity to fight for. Letting it go is the cheapest option.",
	{categoryRaise, categoryCheck}: "Checking keeps the pot controlled and avoids bloating it with a vulnerable range.",
	{categoryCheck, categoryRaise}: "Betting here extracts value and denies equity to hands that would check behind.",
	{categoryCall, categoryFold}:   "The price is too high for this hand's equity. Folding saves the difference.",
	{categoryAllIn, categoryFold}:  "Risking the whole stack here burns tournament equity; folding preserves it.",
	{categoryAllIn, categoryCall}:  "A flat call keeps dominated hands in; jamming only gets called by better.",
}

func categorize(actionLabel string) actionCategory {
	label := strings.ToLower(actionLabel)
	switch {
	case strings.HasPrefix(label, "fold"):
		return categoryFold
	case strings.HasPrefix(label, "check"):
		return categoryCheck
	case strings.HasPrefix(label, "call"):
		return categoryCall
	case strings.HasPrefix(label, "all-in"), strings.HasPrefix(label, "all in"):
		return categoryAllIn
	case strings.HasPrefix(label, "bet"), strings.HasPrefix(label, "raise"),
		strings.Contains(label, "-bet"):
		return categoryRaise
	default:
		return categoryOther
	}
}
