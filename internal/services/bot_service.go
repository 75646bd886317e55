package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/AzsddceOfMagic/Pokeroker/internal/audit"
	"github.com/AzsddceOfMagic/Pokeroker/internal/config"
	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// BotService manages bot-practice table sittings. Starting a session costs a
// fixed number of credits and issues an opaque handle the client must present
// to close the session; handles live in Redis with a TTL so abandoned tables
// expire on their own.
type BotService struct {
	db       *sql.DB
	redis    *redis.Client
	credits  *CreditService
	progress *ProgressService
	cfg      *config.TrainingConfig
	audit    *audit.Logger
}

func NewBotService(db *sql.DB, redisClient *redis.Client, credits *CreditService, progress *ProgressService, cfg *config.TrainingConfig) *BotService {
	return &BotService{
		db:       db,
		redis:    redisClient,
		credits:  credits,
		progress: progress,
		cfg:      cfg,
		audit:    audit.NewLogger(),
	}
}

// StartedSession pairs the persisted session row with its ephemeral handle
type StartedSession struct {
	Handle  string            `json:"handle"`
	Session models.BotSession `json:"session"`
}

// StartSession deducts the fixed session cost and opens a bot table sitting
func (s *BotService) StartSession(ctx context.Context, userID, botType, difficulty string) (*StartedSession, error) {
	if s.redis == nil {
		return nil, ErrBotPracticeOffline
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deducted, err := s.credits.TryDeductTx(ctx, tx, userID, s.cfg.BotSessionCost)
	if err != nil {
		return nil, err
	}
	if !deducted {
		if _, err := s.credits.GetUser(ctx, userID); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientCredits
	}

	session := models.BotSession{
		UserID:       userID,
		BotType:      botType,
		Difficulty:   difficulty,
		CreditsSpent: s.cfg.BotSessionCost,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO bot_sessions (user_id, bot_type, difficulty, credits_spent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, started_at`,
		userID, botType, difficulty, s.cfg.BotSessionCost,
	).Scan(&session.ID, &session.StartedAt)
	if err != nil {
		s.audit.LogReconciliation(userID, s.cfg.BotSessionCost, err)
		return nil, fmt.Errorf("failed to create bot session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.audit.LogReconciliation(userID, s.cfg.BotSessionCost, err)
		return nil, fmt.Errorf("failed to commit bot session: %w", err)
	}

	handle := uuid.NewString()
	key := handleKey(handle)
	value := fmt.Sprintf("%d:%s", session.ID, userID)
	if err := s.redis.Set(ctx, key, value, s.cfg.BotHandleTTL).Err(); err != nil {
		// Credits are spent and the row exists but the handle is unusable:
		// log for reconciliation and surface the failure.
		s.audit.LogReconciliation(userID, s.cfg.BotSessionCost, err)
		return nil, fmt.Errorf("failed to store session handle: %w", err)
	}

	s.audit.LogSpend(userID, session.ID, s.cfg.BotSessionCost, "BOT_SESSION_STARTED")
	log.Printf("[BOT] User %s started %s/%s session %d", userID, botType, difficulty, session.ID)

	return &StartedSession{Handle: handle, Session: session}, nil
}

// EndSession consumes a handle, closes the sitting with the reported final
// stats and folds the result into the user's win rate. Unknown or expired
// handles reject without mutation.
func (s *BotService) EndSession(ctx context.Context, handle string, stats models.BotFinalStats) (*models.BotSession, error) {
	if s.redis == nil {
		return nil, ErrBotPracticeOffline
	}

	key := handleKey(handle)
	value, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session handle: %w", err)
	}

	sessionID, userID, err := parseHandleValue(value)
	if err != nil {
		return nil, err
	}

	// Consume the handle before mutating so a retry cannot close twice.
	s.redis.Del(ctx, key)

	var session models.BotSession
	err = s.db.QueryRowContext(ctx, `
		UPDATE bot_sessions
		SET hands_played = $1, hands_won = $2, total_profit = $3, ended_at = NOW()
		WHERE id = $4 AND user_id = $5 AND ended_at IS NULL
		RETURNING id, user_id, bot_type, difficulty, hands_played, hands_won,
			total_profit, credits_spent, started_at, ended_at`,
		stats.HandsPlayed, stats.HandsWon, stats.TotalProfit, sessionID, userID,
	).Scan(&session.ID, &session.UserID, &session.BotType, &session.Difficulty,
		&session.HandsPlayed, &session.HandsWon, &session.TotalProfit,
		&session.CreditsSpent, &session.StartedAt, &session.EndedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to close bot session: %w", err)
	}

	if _, err := s.progress.RecordBotResult(ctx, userID, stats); err != nil {
		// The sitting is closed; only the running stats missed the update.
		s.audit.LogError(userID, "BOT_PROGRESS_UPDATE", err)
	}

	log.Printf("[BOT] User %s ended session %d: %d hands, %d won, profit %.2f",
		userID, session.ID, stats.HandsPlayed, stats.HandsWon, stats.TotalProfit)
	return &session, nil
}

// RecentSessions lists the user's latest sittings, newest first
func (s *BotService) RecentSessions(ctx context.Context, userID string, limit int) ([]models.BotSession, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, bot_type, difficulty, hands_played, hands_won,
			total_profit, credits_spent, started_at, ended_at
		FROM bot_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bot sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.BotSession
	for rows.Next() {
		var bs models.BotSession
		if err := rows.Scan(&bs.ID, &bs.UserID, &bs.BotType, &bs.Difficulty,
			&bs.HandsPlayed, &bs.HandsWon, &bs.TotalProfit, &bs.CreditsSpent,
			&bs.StartedAt, &bs.EndedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, bs)
	}
	return sessions, rows.Err()
}

func handleKey(handle string) string {
	return fmt.Sprintf("bot:handle:%s", handle)
}

func parseHandleValue(value string) (int, string, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("malformed session handle value")
	}
	sessionID, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("malformed session id in handle: %w", err)
	}
	return sessionID, parts[1], nil
}
