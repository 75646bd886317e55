package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AzsddceOfMagic/Pokeroker/internal/config"
	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
	"github.com/coder/quartz"
)

const userColumns = "id, email, first_name, last_name, credits, last_regeneration, created_at, updated_at"

// CreditService is the sole mutator of a user's credit balance. Every
// mutation is a single conditional UPDATE so concurrent spends and
// regenerations are serialized by the row itself.
type CreditService struct {
	db    *sql.DB
	cfg   *config.TrainingConfig
	clock quartz.Clock
}

func NewCreditService(db *sql.DB, cfg *config.TrainingConfig) *CreditService {
	return NewCreditServiceWithClock(db, cfg, quartz.NewReal())
}

// NewCreditServiceWithClock lets tests control the regeneration gate.
func NewCreditServiceWithClock(db *sql.DB, cfg *config.TrainingConfig, clock quartz.Clock) *CreditService {
	return &CreditService{db: db, cfg: cfg, clock: clock}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TryDeduct atomically subtracts amount from the user's balance if and only
// if the balance covers it. Returns false without mutating anything when it
// does not; insufficient balance is a normal outcome, not an error.
func (s *CreditService) TryDeduct(ctx context.Context, userID string, amount int) (bool, error) {
	return s.tryDeduct(ctx, s.db, userID, amount)
}

// TryDeductTx is TryDeduct inside a caller-owned transaction, used by the
// training pipeline so the deduction commits or rolls back with the records
// that depend on it.
func (s *CreditService) TryDeductTx(ctx context.Context, tx *sql.Tx, userID string, amount int) (bool, error) {
	return s.tryDeduct(ctx, tx, userID, amount)
}

func (s *CreditService) tryDeduct(ctx context.Context, q execer, userID string, amount int) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("deduct amount must be positive, got %d", amount)
	}

	res, err := q.ExecContext(ctx, `
		UPDATE users
		SET credits = credits - $1, updated_at = $2
		WHERE id = $3 AND credits >= $1`,
		amount, s.clock.Now(), userID)
	if err != nil {
		return false, fmt.Errorf("failed to deduct credits: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// Regenerate applies the daily credit top-up when the last regeneration is at
// least one interval old, capped at the maximum balance. The staleness check
// lives in the UPDATE's WHERE clause, so concurrent calls inside the same
// window apply it at most once. Returns the user's current state either way.
func (s *CreditService) Regenerate(ctx context.Context, userID string) (*models.User, error) {
	now := s.clock.Now()
	cutoff := now.Add(-s.cfg.RegenInterval)

	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET credits = LEAST(credits + $1, $2), last_regeneration = $3, updated_at = $3
		WHERE id = $4 AND last_regeneration <= $5
		RETURNING `+userColumns,
		s.cfg.RegenAmount, s.cfg.MaxCredits, now, userID, cutoff)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		// Gate not met; fall back to the unchanged account.
		return s.GetUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate credits: %w", err)
	}

	log.Printf("[CREDITS] Regenerated credits for user %s, balance now %d", userID, user.Credits)
	return user, nil
}

// GetUser fetches the account without side effects
func (s *CreditService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", userID)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetBalance returns the current credit balance
func (s *CreditService) GetBalance(ctx context.Context, userID string) (int, error) {
	var credits int
	err := s.db.QueryRowContext(ctx, "SELECT credits FROM users WHERE id = $1", userID).Scan(&credits)
	if err == sql.ErrNoRows {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}
	return credits, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName,
		&user.Credits, &user.LastRegeneration, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCredits returns the authenticated user's balance, applying the daily
// regeneration first
// @Summary Get credit balance
// @Description Get the current credit balance after the daily regeneration check
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Current balance"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /credits [get]
func (s *CreditService) GetCredits(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := s.Regenerate(r.Context(), userID)
	if err == ErrAccountNotFound {
		SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[CREDITS] Failed to fetch balance for user %s: %v", userID, err)
		SendErrorResponse(w, "Failed to fetch credits", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"credits":          user.Credits,
		"maxCredits":       s.cfg.MaxCredits,
		"lastRegeneration": user.LastRegeneration,
	})
}

// RegenerateCredits explicitly triggers the daily regeneration check
// @Summary Regenerate credits
// @Description Apply the daily credit regeneration if 24h have elapsed
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int "Updated balance"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Router /credits/regenerate [post]
func (s *CreditService) RegenerateCredits(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := s.Regenerate(r.Context(), userID)
	if err == ErrAccountNotFound {
		SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[CREDITS] Regeneration failed for user %s: %v", userID, err)
		SendErrorResponse(w, "Failed to regenerate credits", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"credits": user.Credits})
}
