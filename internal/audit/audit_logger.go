package audit

import (
	"encoding/json"
	"log"
	"time"
)

type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	ScenarioID int       `json:"scenario_id,omitempty"`
	Credits    int       `json:"credits,omitempty"`
	Status     string    `json:"status"`
	Details    any       `json:"details"`
}

// Logger emits structured audit events for the credit economy. Its main job
// is recording reconciliation-worthy inconsistencies: a deduction that
// committed while a dependent record write failed.
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (a *Logger) LogSpend(userID string, scenarioID, credits int, status string) {
	a.log(Event{
		Timestamp:  time.Now(),
		EventType:  "CREDIT_SPEND",
		UserID:     userID,
		ScenarioID: scenarioID,
		Credits:    credits,
		Status:     status,
	})
}

func (a *Logger) LogReconciliation(userID string, credits int, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "RECONCILIATION",
		UserID:    userID,
		Credits:   credits,
		Status:    "INCONSISTENT",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) LogError(userID string, operation string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		UserID:    userID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
