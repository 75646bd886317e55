package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AzsddceOfMagic/Pokeroker/internal/services"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
)

func newBotHandler(db *sql.DB, redisClient *redis.Client) *BotHandler {
	cfg := testConfig()
	credits := services.NewCreditService(db, cfg)
	svc := services.NewBotService(db, redisClient, credits, services.NewProgressService(db), cfg)
	return NewBotHandler(svc, cfg)
}

func TestBotHandler_StartSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	handler := newBotHandler(db, redisClient)

	t.Run("opens a sitting", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO bot_sessions").
			WillReturnRows(sqlmock.NewRows([]string{"id", "started_at"}).AddRow(1, time.Now()))
		mock.ExpectCommit()
		redisMock.Regexp().ExpectSet(`bot:handle:.+`, `1:user1`, 4*time.Hour).SetVal("OK")

		body, _ := json.Marshal(map[string]any{"botType": "tag", "difficulty": "intermediate"})
		rec := httptest.NewRecorder()
		handler.StartSession(rec, authedRequest(http.MethodPost, "/api/v1/bot/session", body))

		assert.Equal(t, http.StatusOK, rec.Code)

		var started services.StartedSession
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
		assert.NotEmpty(t, started.Handle)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("rejects an unknown bot type", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"botType": "maniac", "difficulty": "beginner"})
		rec := httptest.NewRecorder()
		handler.StartSession(rec, authedRequest(http.MethodPost, "/api/v1/bot/session", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("503 when bot practice is offline", func(t *testing.T) {
		offline := newBotHandler(db, nil)

		body, _ := json.Marshal(map[string]any{"botType": "gto", "difficulty": "beginner"})
		rec := httptest.NewRecorder()
		offline.StartSession(rec, authedRequest(http.MethodPost, "/api/v1/bot/session", body))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestBotHandler_EndSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	redisClient, redisMock := redismock.NewClientMock()
	handler := newBotHandler(db, redisClient)

	handle := "5e0ad38f-2798-4a9c-9f0d-7d1f0a9a61c1"

	t.Run("closes a sitting by handle", func(t *testing.T) {
		redisMock.ExpectGet("bot:handle:" + handle).SetVal("1:user1")
		redisMock.ExpectDel("bot:handle:" + handle).SetVal(1)

		now := time.Now()
		mock.ExpectQuery("UPDATE bot_sessions").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "bot_type",
				"difficulty", "hands_played", "hands_won", "total_profit",
				"credits_spent", "started_at", "ended_at"}).
				AddRow(1, "user1", "tag", "intermediate", 30, 15, 42.0, 25, now.Add(-time.Hour), now))
		mock.ExpectExec("INSERT INTO user_progress").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("UPDATE user_progress").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "gto_accuracy", "icm_score",
				"win_rate", "preflop_accuracy", "postflop_accuracy", "betting_size_accuracy",
				"gto_sessions", "icm_sessions", "bot_sessions", "total_sessions", "updated_at"}).
				AddRow("user1", 0.0, 0.0, 50.0, 0.0, 0.0, 0.0, 0, 0, 1, 1, time.Now()))

		body, _ := json.Marshal(map[string]any{
			"handle": handle, "handsPlayed": 30, "handsWon": 15, "totalProfit": 42.0,
		})
		rec := httptest.NewRecorder()
		handler.EndSession(rec, authedRequest(http.MethodPut, "/api/v1/bot/session/end", body))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("expired handle maps to 404", func(t *testing.T) {
		redisMock.ExpectGet("bot:handle:" + handle).RedisNil()

		body, _ := json.Marshal(map[string]any{
			"handle": handle, "handsPlayed": 10, "handsWon": 5,
		})
		rec := httptest.NewRecorder()
		handler.EndSession(rec, authedRequest(http.MethodPut, "/api/v1/bot/session/end", body))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("rejects more wins than hands", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"handle": handle, "handsPlayed": 5, "handsWon": 9,
		})
		rec := httptest.NewRecorder()
		handler.EndSession(rec, authedRequest(http.MethodPut, "/api/v1/bot/session/end", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed handle", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"handle": "not-a-uuid", "handsPlayed": 5, "handsWon": 2,
		})
		rec := httptest.NewRecorder()
		handler.EndSession(rec, authedRequest(http.MethodPut, "/api/v1/bot/session/end", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
