package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
)

// SeedCatalog loads the authored scenario pack from a JSON file and inserts
// any scenarios not already present. Existing rows are never overwritten;
// the catalog is append-only authored data.
func (s *CatalogService) SeedCatalog(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario seed file: %w", err)
	}

	var scenarios []models.Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return fmt.Errorf("failed to parse scenario seed file: %w", err)
	}

	seeded := 0
	for _, sc := range scenarios {
		if err := validateSeedScenario(&sc); err != nil {
			return fmt.Errorf("scenario %d (%s): %w", sc.ID, sc.Title, err)
		}

		res, err := s.db.ExecContext(ctx, `
			INSERT INTO scenarios (id, type, title, description, situation, game_type,
				position, hero_cards, board_cards, stack_sizes, pot_size, bet_size,
				actions, optimal_action, difficulty, cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (id) DO NOTHING`,
			sc.ID, sc.Type, sc.Title, sc.Description, sc.Situation, sc.GameType,
			sc.Position, sc.HeroCards, sc.BoardCards, sc.StackSizes, sc.PotSize,
			sc.BetSize, sc.Actions, sc.OptimalAction, sc.Difficulty, sc.Cost)
		if err != nil {
			return fmt.Errorf("failed to seed scenario %d: %w", sc.ID, err)
		}
		if rows, _ := res.RowsAffected(); rows > 0 {
			seeded++
		}
	}

	log.Printf("[CATALOG] Seeded %d of %d scenarios from %s", seeded, len(scenarios), path)
	return nil
}

func validateSeedScenario(sc *models.Scenario) error {
	if sc.Type != models.ScenarioTypeGTO && sc.Type != models.ScenarioTypeICM {
		return fmt.Errorf("unknown scenario type %q", sc.Type)
	}
	if sc.Cost <= 0 {
		return fmt.Errorf("cost must be positive, got %d", sc.Cost)
	}
	if len(sc.Actions) == 0 {
		return fmt.Errorf("action list is empty")
	}
	if _, ok := sc.Actions.Find(sc.OptimalAction); !ok {
		return fmt.Errorf("optimal action %q is not in the action list", sc.OptimalAction)
	}
	return nil
}
