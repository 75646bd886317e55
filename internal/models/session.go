package models

import "time"

// TrainingSession is one scenario attempt. Append-only; is_correct and
// value_difference are derived by the evaluator at creation time.
type TrainingSession struct {
	ID              int       `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	ScenarioID      int       `json:"scenarioId" db:"scenario_id"`
	ChosenAction    string    `json:"chosenAction" db:"chosen_action"`
	IsCorrect       bool      `json:"isCorrect" db:"is_correct"`
	ValueDifference float64   `json:"valueDifference" db:"value_difference"`
	TimeSpent       int       `json:"timeSpent,omitempty" db:"time_spent"` // seconds
	CreditsSpent    int       `json:"creditsSpent" db:"credits_spent"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Bot opponent types
const (
	BotTypeGTO = "gto"
	BotTypeLAG = "lag"
	BotTypeTAG = "tag"
)

// BotSession is one bot-practice table sitting
type BotSession struct {
	ID           int        `json:"id" db:"id"`
	UserID       string     `json:"userId" db:"user_id"`
	BotType      string     `json:"botType" db:"bot_type"` // gto, lag or tag
	Difficulty   string     `json:"difficulty" db:"difficulty"`
	HandsPlayed  int        `json:"handsPlayed" db:"hands_played"`
	HandsWon     int        `json:"handsWon" db:"hands_won"`
	TotalProfit  float64    `json:"totalProfit" db:"total_profit"`
	CreditsSpent int        `json:"creditsSpent" db:"credits_spent"`
	StartedAt    time.Time  `json:"startedAt" db:"started_at"`
	EndedAt      *time.Time `json:"endedAt,omitempty" db:"ended_at"`
}

// BotFinalStats is the client-reported result of a finished bot session
type BotFinalStats struct {
	HandsPlayed int     `json:"handsPlayed" validate:"gte=0"`
	HandsWon    int     `json:"handsWon" validate:"gte=0"`
	TotalProfit float64 `json:"totalProfit"`
}
