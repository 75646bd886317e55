package services

import (
	"testing"

	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
	"github.com/stretchr/testify/assert"
)

func sampleScenario() *models.Scenario {
	return &models.Scenario{
		ID:    1,
		Type:  models.ScenarioTypeGTO,
		Title: "Facing a 3-bet with AKs",
		Actions: models.ActionList{
			{Label: "Fold", Value: -6.0},
			{Label: "Call", Value: 1.25},
			{Label: "4-bet to $55", Value: 3.47},
		},
		OptimalAction: "4-bet to $55",
		Cost:          50,
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("exact match on the optimal action", func(t *testing.T) {
		eval, err := Evaluate(sampleScenario(), "4-bet to $55")
		assert.NoError(t, err)
		assert.True(t, eval.IsCorrect)
		assert.Equal(t, 0.0, eval.ValueDifference)
		assert.Equal(t, "4-bet to $55", eval.OptimalAction)
		assert.Contains(t, eval.Feedback, "Excellent!")
		assert.Contains(t, eval.Feedback, "+3.47")
	})

	t.Run("suboptimal action reports the authored difference", func(t *testing.T) {
		eval, err := Evaluate(sampleScenario(), "Call")
		assert.NoError(t, err)
		assert.False(t, eval.IsCorrect)
		assert.InDelta(t, -2.22, eval.ValueDifference, 0.0001)
		assert.Contains(t, eval.Feedback, "Call loses 2.22 EV")
		assert.Contains(t, eval.Feedback, "4-bet to $55")
	})

	t.Run("worst action", func(t *testing.T) {
		eval, err := Evaluate(sampleScenario(), "Fold")
		assert.NoError(t, err)
		assert.False(t, eval.IsCorrect)
		assert.InDelta(t, -9.47, eval.ValueDifference, 0.0001)
	})

	t.Run("action label not in the scenario", func(t *testing.T) {
		_, err := Evaluate(sampleScenario(), "Min-raise")
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("label match is exact, not fuzzy", func(t *testing.T) {
		_, err := Evaluate(sampleScenario(), "call")
		assert.ErrorIs(t, err, ErrInvalidAction)

		_, err = Evaluate(sampleScenario(), "4-bet")
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("icm scenarios report equity instead of EV", func(t *testing.T) {
		scenario := &models.Scenario{
			ID:   11,
			Type: models.ScenarioTypeICM,
			Actions: models.ActionList{
				{Label: "Fold", Value: 1850},
				{Label: "All-in", Value: 1820},
			},
			OptimalAction: "Fold",
			Cost:          100,
		}

		eval, err := Evaluate(scenario, "All-in")
		assert.NoError(t, err)
		assert.False(t, eval.IsCorrect)
		assert.InDelta(t, -30.0, eval.ValueDifference, 0.0001)
		assert.Contains(t, eval.Feedback, "equity")
		assert.NotContains(t, eval.Feedback, "EV")
	})

	t.Run("negative optimal value renders a signed number", func(t *testing.T) {
		// Loss-minimizing spots author a negative value for the best action.
		scenario := &models.Scenario{
			ID:   4,
			Type: models.ScenarioTypeGTO,
			Actions: models.ActionList{
				{Label: "Fold", Value: -1.5},
				{Label: "Call", Value: -4.0},
			},
			OptimalAction: "Fold",
			Cost:          50,
		}

		eval, err := Evaluate(scenario, "Fold")
		assert.NoError(t, err)
		assert.True(t, eval.IsCorrect)
		assert.Contains(t, eval.Feedback, "-1.50")
		assert.NotContains(t, eval.Feedback, "+-")
	})

	t.Run("authored data can rank the optimal action below another", func(t *testing.T) {
		// The reference value is reported as authored, even when a
		// non-optimal action carries a higher number.
		scenario := sampleScenario()
		scenario.OptimalAction = "Call"

		eval, err := Evaluate(scenario, "4-bet to $55")
		assert.NoError(t, err)
		assert.False(t, eval.IsCorrect)
		assert.InDelta(t, 2.22, eval.ValueDifference, 0.0001)
	})

	t.Run("malformed scenario with missing optimal action", func(t *testing.T) {
		scenario := sampleScenario()
		scenario.OptimalAction = "Shove"

		_, err := Evaluate(scenario, "Call")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidAction)
	})
}

func TestCategorize(t *testing.T) {
	cases := map[string]actionCategory{
		"Fold":          categoryFold,
		"Check":         categoryCheck,
		"Call":          categoryCall,
		"Call $30":      categoryCall,
		"Raise to $24":  categoryRaise,
		"Bet 75% pot":   categoryRaise,
		"4-bet to $55":  categoryRaise,
		"3-bet to $33":  categoryRaise,
		"All-in":        categoryAllIn,
		"All in $1,200": categoryAllIn,
		"Limp":          categoryOther,
	}

	for label, want := range cases {
		assert.Equal(t, want, categorize(label), "label %q", label)
	}
}
