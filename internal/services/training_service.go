package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/AzsddceOfMagic/Pokeroker/internal/audit"
	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
)

// TrainingService runs the scenario-decision pipeline: resolve the scenario,
// spend credits, score the decision, append the session record and fold the
// result into progress. The deduct, the session insert and the progress
// update share one database transaction so a storage failure can never leave
// credits spent without a matching record.
type TrainingService struct {
	db       *sql.DB
	catalog  *CatalogService
	credits  *CreditService
	progress *ProgressService
	audit    *audit.Logger
}

func NewTrainingService(db *sql.DB, catalog *CatalogService, credits *CreditService, progress *ProgressService) *TrainingService {
	return &TrainingService{
		db:       db,
		catalog:  catalog,
		credits:  credits,
		progress: progress,
		audit:    audit.NewLogger(),
	}
}

// SubmitResult is the outcome of a scored scenario attempt
type SubmitResult struct {
	Session    models.TrainingSession `json:"session"`
	Evaluation Evaluation             `json:"evaluation"`
	Progress   models.Progress        `json:"progress"`
}

// SubmitDecision scores a user's chosen action for a scenario. Rejections
// (unknown scenario, unknown action label, insufficient credits) happen
// before any mutation; the caller maps them to HTTP statuses.
func (ts *TrainingService) SubmitDecision(ctx context.Context, userID string, scenarioID int, chosenAction string, timeSpent int) (*SubmitResult, error) {
	scenario, err := ts.catalog.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	// Reject unknown action labels before touching the balance.
	if _, ok := scenario.Actions.Find(chosenAction); !ok {
		return nil, ErrInvalidAction
	}

	eval, err := Evaluate(scenario, chosenAction)
	if err != nil {
		return nil, err
	}

	tx, err := ts.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deducted, err := ts.credits.TryDeductTx(ctx, tx, userID, scenario.Cost)
	if err != nil {
		return nil, err
	}
	if !deducted {
		// Either the balance is short or the account is gone; tell them apart
		// without mutating anything.
		if _, err := ts.credits.GetUser(ctx, userID); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientCredits
	}

	session := models.TrainingSession{
		UserID:          userID,
		ScenarioID:      scenario.ID,
		ChosenAction:    chosenAction,
		IsCorrect:       eval.IsCorrect,
		ValueDifference: eval.ValueDifference,
		TimeSpent:       timeSpent,
		CreditsSpent:    scenario.Cost,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO training_sessions (user_id, scenario_id, chosen_action, is_correct,
			value_difference, time_spent, credits_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		session.UserID, session.ScenarioID, session.ChosenAction, session.IsCorrect,
		session.ValueDifference, session.TimeSpent, session.CreditsSpent,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		ts.audit.LogReconciliation(userID, scenario.Cost, err)
		return nil, fmt.Errorf("failed to create session record: %w", err)
	}

	progress, err := ts.progress.RecordOutcomeTx(ctx, tx, userID, scenario.Type, eval.IsCorrect)
	if err != nil {
		ts.audit.LogReconciliation(userID, scenario.Cost, err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		ts.audit.LogReconciliation(userID, scenario.Cost, err)
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}

	ts.audit.LogSpend(userID, scenario.ID, scenario.Cost, "COMPLETED")
	log.Printf("[TRAINING] User %s answered scenario %d with %q (correct=%v, diff=%.2f)",
		userID, scenario.ID, chosenAction, eval.IsCorrect, eval.ValueDifference)

	return &SubmitResult{Session: session, Evaluation: eval, Progress: *progress}, nil
}

// RecentSessions lists the user's latest attempts, newest first
func (ts *TrainingService) RecentSessions(ctx context.Context, userID string, limit int) ([]models.TrainingSession, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := ts.db.QueryContext(ctx, `
		SELECT id, user_id, scenario_id, chosen_action, is_correct, value_difference,
			time_spent, credits_spent, created_at
		FROM training_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.TrainingSession
	for rows.Next() {
		var s models.TrainingSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.ScenarioID, &s.ChosenAction,
			&s.IsCorrect, &s.ValueDifference, &s.TimeSpent, &s.CreditsSpent,
			&s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
