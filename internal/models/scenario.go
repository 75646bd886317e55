package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Scenario types
const (
	ScenarioTypeGTO = "gto"
	ScenarioTypeICM = "icm"
)

// Action is a single entry in a scenario's authored action menu. Value is EV
// for "gto" scenarios and tournament equity for "icm" scenarios; the numbers
// are authored constants, never computed here.
type Action struct {
	Label string  `json:"action"`
	Value float64 `json:"value"`
}

// ActionList is the ordered action menu, stored as JSONB
type ActionList []Action

// Find returns the value associated with an action label
func (al ActionList) Find(label string) (float64, bool) {
	for _, a := range al {
		if a.Label == label {
			return a.Value, true
		}
	}
	return 0, false
}

// Value implements driver.Valuer for ActionList
func (al ActionList) Value() (driver.Value, error) {
	if al == nil {
		return nil, nil
	}
	return json.Marshal(al)
}

// Scan implements sql.Scanner for ActionList
func (al *ActionList) Scan(value any) error {
	if value == nil {
		*al = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, al)
}

// StringList is a JSONB array of strings (hole cards, board cards)
type StringList []string

// Value implements driver.Valuer for StringList
func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		return nil, nil
	}
	return json.Marshal(sl)
}

// Scan implements sql.Scanner for StringList
func (sl *StringList) Scan(value any) error {
	if value == nil {
		*sl = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, sl)
}

// IntList is a JSONB array of integers (tournament stack sizes)
type IntList []int

// Value implements driver.Valuer for IntList
func (il IntList) Value() (driver.Value, error) {
	if il == nil {
		return nil, nil
	}
	return json.Marshal(il)
}

// Scan implements sql.Scanner for IntList
func (il *IntList) Scan(value any) error {
	if value == nil {
		*il = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, il)
}

// Scenario is an authored decision spot. Immutable once seeded; the action
// menu and optimal action are reference data for the evaluator.
type Scenario struct {
	ID            int        `json:"id" db:"id"`
	Type          string     `json:"type" db:"type"` // gto or icm
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Situation     string     `json:"situation" db:"situation"`
	GameType      string     `json:"gameType" db:"game_type"`
	Position      string     `json:"position,omitempty" db:"position"`
	HeroCards     StringList `json:"heroCards" db:"hero_cards"`
	BoardCards    StringList `json:"boardCards" db:"board_cards"`
	StackSizes    IntList    `json:"stackSizes,omitempty" db:"stack_sizes"`
	PotSize       int        `json:"potSize" db:"pot_size"`
	BetSize       int        `json:"betSize" db:"bet_size"`
	Actions       ActionList `json:"actions" db:"actions"`
	OptimalAction string     `json:"optimalAction" db:"optimal_action"`
	Difficulty    string     `json:"difficulty" db:"difficulty"` // beginner, intermediate, advanced
	Cost          int        `json:"cost" db:"cost"`             // credits to attempt
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}
