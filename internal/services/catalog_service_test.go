package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var scenarioColumnList = []string{"id", "type", "title", "description", "situation",
	"game_type", "position", "hero_cards", "board_cards", "stack_sizes",
	"pot_size", "bet_size", "actions", "optimal_action", "difficulty", "cost", "created_at"}

func scenarioRow(rows *sqlmock.Rows, id int, scType, title, difficulty string, cost int) *sqlmock.Rows {
	return rows.AddRow(id, scType, title, "A tough spot", "UTG opens, you hold AKs",
		"cash", "BTN", []byte(`["As","Ks"]`), []byte(`[]`), []byte(`[100]`),
		12, 9, []byte(`[{"action":"Fold","value":-6.0},{"action":"Call","value":1.25},{"action":"4-bet to $55","value":3.47}]`),
		"4-bet to $55", difficulty, cost, time.Now())
}

func TestCatalogService_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCatalogService(db)
	ctx := context.Background()

	t.Run("fetches a scenario with its action menu", func(t *testing.T) {
		rows := scenarioRow(sqlmock.NewRows(scenarioColumnList), 1, "gto", "Facing a 3-bet", "intermediate", 50)
		mock.ExpectQuery("SELECT (.+) FROM scenarios WHERE id").
			WithArgs(1).
			WillReturnRows(rows)

		scenario, err := service.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, scenario.ID)
		assert.Equal(t, "gto", scenario.Type)
		assert.Equal(t, 50, scenario.Cost)
		assert.Len(t, scenario.Actions, 3)

		value, ok := scenario.Actions.Find("4-bet to $55")
		assert.True(t, ok)
		assert.InDelta(t, 3.47, value, 0.0001)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM scenarios WHERE id").
			WithArgs(999).
			WillReturnRows(sqlmock.NewRows(scenarioColumnList))

		_, err := service.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrScenarioNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reads are repeatable", func(t *testing.T) {
		// Catalog rows are immutable; two reads of the same id agree.
		for i := 0; i < 2; i++ {
			rows := scenarioRow(sqlmock.NewRows(scenarioColumnList), 1, "gto", "Facing a 3-bet", "intermediate", 50)
			mock.ExpectQuery("SELECT (.+) FROM scenarios WHERE id").
				WithArgs(1).
				WillReturnRows(rows)
		}

		first, err := service.GetByID(ctx, 1)
		assert.NoError(t, err)
		second, err := service.GetByID(ctx, 1)
		assert.NoError(t, err)

		assert.Equal(t, first.OptimalAction, second.OptimalAction)
		assert.Equal(t, first.Actions, second.Actions)
		assert.Equal(t, first.Cost, second.Cost)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCatalogService_ListByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCatalogService(db)
	ctx := context.Background()

	t.Run("lists scenarios of one type", func(t *testing.T) {
		rows := sqlmock.NewRows(scenarioColumnList)
		rows = scenarioRow(rows, 2, "gto", "Button defense", "beginner", 50)
		rows = scenarioRow(rows, 1, "gto", "Facing a 3-bet", "intermediate", 50)

		mock.ExpectQuery("SELECT (.+) FROM scenarios WHERE type = (.+) ORDER BY difficulty, title").
			WithArgs("gto").
			WillReturnRows(rows)

		scenarios, err := service.ListByType(ctx, "gto")
		assert.NoError(t, err)
		assert.Len(t, scenarios, 2)
		assert.Equal(t, "Button defense", scenarios[0].Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty catalog", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM scenarios WHERE type").
			WithArgs("icm").
			WillReturnRows(sqlmock.NewRows(scenarioColumnList))

		scenarios, err := service.ListByType(ctx, "icm")
		assert.NoError(t, err)
		assert.Empty(t, scenarios)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCatalogService_SeedCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	service := NewCatalogService(db)
	ctx := context.Background()

	writeSeed := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "scenarios.json")
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	validSeed := `[{
		"id": 1,
		"type": "gto",
		"title": "Facing a 3-bet",
		"description": "A tough spot",
		"situation": "UTG opens, you hold AKs",
		"gameType": "cash",
		"position": "BTN",
		"heroCards": ["As", "Ks"],
		"actions": [
			{"action": "Fold", "value": -6.0},
			{"action": "Call", "value": 1.25},
			{"action": "4-bet to $55", "value": 3.47}
		],
		"optimalAction": "4-bet to $55",
		"difficulty": "intermediate",
		"cost": 50
	}]`

	t.Run("inserts new scenarios", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO scenarios").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := service.SeedCatalog(ctx, writeSeed(t, validSeed))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing rows are left alone", func(t *testing.T) {
		// ON CONFLICT DO NOTHING affects zero rows; still no error.
		mock.ExpectExec("INSERT INTO scenarios").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := service.SeedCatalog(ctx, writeSeed(t, validSeed))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an optimal action missing from the list", func(t *testing.T) {
		bad := `[{
			"id": 2,
			"type": "gto",
			"title": "Broken",
			"actions": [{"action": "Fold", "value": 0}],
			"optimalAction": "Shove",
			"difficulty": "beginner",
			"cost": 50
		}]`

		err := service.SeedCatalog(ctx, writeSeed(t, bad))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not in the action list")
	})

	t.Run("rejects a non-positive cost", func(t *testing.T) {
		bad := `[{
			"id": 3,
			"type": "icm",
			"title": "Free lunch",
			"actions": [{"action": "Fold", "value": 0}],
			"optimalAction": "Fold",
			"difficulty": "beginner",
			"cost": 0
		}]`

		err := service.SeedCatalog(ctx, writeSeed(t, bad))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cost must be positive")
	})

	t.Run("missing file", func(t *testing.T) {
		err := service.SeedCatalog(ctx, filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
