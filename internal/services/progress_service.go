package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
)

const progressColumns = `user_id, gto_accuracy, icm_score, win_rate, preflop_accuracy,
	postflop_accuracy, betting_size_accuracy, gto_sessions, icm_sessions, bot_sessions,
	total_sessions, updated_at`

// ProgressService maintains O(1)-space running statistics per user. Each
// average is folded forward from the previous value and its own sample
// counter inside a single UPDATE, so concurrent recordings cannot lose an
// update. The session log is never re-scanned.
type ProgressService struct {
	db *sql.DB
}

func NewProgressService(db *sql.DB) *ProgressService {
	return &ProgressService{db: db}
}

type queryExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RecordOutcome folds one scenario result into the user's running statistics
func (s *ProgressService) RecordOutcome(ctx context.Context, userID, scenarioType string, isCorrect bool) (*models.Progress, error) {
	return s.recordOutcome(ctx, s.db, userID, scenarioType, isCorrect)
}

// RecordOutcomeTx is RecordOutcome inside the training pipeline's transaction
func (s *ProgressService) RecordOutcomeTx(ctx context.Context, tx *sql.Tx, userID, scenarioType string, isCorrect bool) (*models.Progress, error) {
	return s.recordOutcome(ctx, tx, userID, scenarioType, isCorrect)
}

func (s *ProgressService) recordOutcome(ctx context.Context, q queryExecer, userID, scenarioType string, isCorrect bool) (*models.Progress, error) {
	// Column names are taken from this whitelist, never from input.
	var avgCol, countCol string
	switch scenarioType {
	case models.ScenarioTypeGTO:
		avgCol, countCol = "gto_accuracy", "gto_sessions"
	case models.ScenarioTypeICM:
		avgCol, countCol = "icm_score", "icm_sessions"
	default:
		return nil, fmt.Errorf("unknown scenario type %q", scenarioType)
	}

	if err := s.ensureRow(ctx, q, userID); err != nil {
		return nil, err
	}

	sample := 0.0
	if isCorrect {
		sample = 100.0
	}

	// (avg*n + sample)/(n+1) and n+1 computed in one statement; the per-type
	// counter weights only its own series.
	query := fmt.Sprintf(`
		UPDATE user_progress
		SET %[1]s = (%[1]s * %[2]s + $1) / (%[2]s + 1),
			%[2]s = %[2]s + 1,
			total_sessions = total_sessions + 1,
			updated_at = NOW()
		WHERE user_id = $2
		RETURNING `+progressColumns, avgCol, countCol)

	progress, err := scanProgress(q.QueryRowContext(ctx, query, sample, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to record outcome: %w", err)
	}
	return progress, nil
}

// RecordBotResult folds a finished bot session into the win-rate average,
// using the same incremental weighting as the scenario accuracies. Sessions
// with no hands played leave the average untouched.
func (s *ProgressService) RecordBotResult(ctx context.Context, userID string, stats models.BotFinalStats) (*models.Progress, error) {
	if err := s.ensureRow(ctx, s.db, userID); err != nil {
		return nil, err
	}

	if stats.HandsPlayed <= 0 {
		return s.GetProgress(ctx, userID)
	}

	sample := 100.0 * float64(stats.HandsWon) / float64(stats.HandsPlayed)

	progress, err := scanProgress(s.db.QueryRowContext(ctx, `
		UPDATE user_progress
		SET win_rate = (win_rate * bot_sessions + $1) / (bot_sessions + 1),
			bot_sessions = bot_sessions + 1,
			total_sessions = total_sessions + 1,
			updated_at = NOW()
		WHERE user_id = $2
		RETURNING `+progressColumns, sample, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to record bot result: %w", err)
	}
	return progress, nil
}

// GetProgress returns the user's statistics, creating the zeroed row on
// first access
func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*models.Progress, error) {
	if err := s.ensureRow(ctx, s.db, userID); err != nil {
		return nil, err
	}

	progress, err := scanProgress(s.db.QueryRowContext(ctx,
		"SELECT "+progressColumns+" FROM user_progress WHERE user_id = $1", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}
	return progress, nil
}

func (s *ProgressService) ensureRow(ctx context.Context, q queryExecer, userID string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO user_progress (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("failed to initialize progress record: %w", err)
	}
	return nil
}

func scanProgress(row *sql.Row) (*models.Progress, error) {
	var p models.Progress
	err := row.Scan(&p.UserID, &p.GtoAccuracy, &p.IcmScore, &p.WinRate,
		&p.PreflopAccuracy, &p.PostflopAccuracy, &p.BettingSizeAccuracy,
		&p.GtoSessions, &p.IcmSessions, &p.BotSessions, &p.TotalSessions,
		&p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetUserProgress returns the authenticated user's running statistics
// @Summary Get training progress
// @Description Get running accuracy statistics, creating a zeroed record on first access
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Progress
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} ErrorResponse
// @Router /progress [get]
func (s *ProgressService) GetUserProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	progress, err := s.GetProgress(r.Context(), userID)
	if err != nil {
		log.Printf("[PROGRESS] Failed to fetch progress for user %s: %v", userID, err)
		SendErrorResponse(w, "Failed to fetch progress", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progress)
}
