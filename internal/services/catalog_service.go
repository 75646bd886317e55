package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
	"github.com/go-chi/chi/v5"
)

const scenarioColumns = `id, type, title, description, situation, game_type, position,
	hero_cards, board_cards, stack_sizes, pot_size, bet_size, actions, optimal_action,
	difficulty, cost, created_at`

// CatalogService is the read-only accessor for the authored scenario catalog.
// Scenarios are immutable once seeded; reads never mutate anything.
type CatalogService struct {
	db *sql.DB
}

func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{db: db}
}

// GetByID resolves a single scenario
func (s *CatalogService) GetByID(ctx context.Context, id int) (*models.Scenario, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+scenarioColumns+" FROM scenarios WHERE id = $1", id)
	scenario, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, ErrScenarioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scenario %d: %w", id, err)
	}
	return scenario, nil
}

// ListByType returns all scenarios of a type, ordered by difficulty then
// title so listings are deterministic.
func (s *CatalogService) ListByType(ctx context.Context, scenarioType string) ([]models.Scenario, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+scenarioColumns+" FROM scenarios WHERE type = $1 ORDER BY difficulty, title",
		scenarioType)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		scenario, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *scenario)
	}
	return scenarios, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*models.Scenario, error) {
	var sc models.Scenario
	var position sql.NullString
	err := row.Scan(&sc.ID, &sc.Type, &sc.Title, &sc.Description, &sc.Situation,
		&sc.GameType, &position, &sc.HeroCards, &sc.BoardCards, &sc.StackSizes,
		&sc.PotSize, &sc.BetSize, &sc.Actions, &sc.OptimalAction,
		&sc.Difficulty, &sc.Cost, &sc.CreatedAt)
	if err != nil {
		return nil, err
	}
	sc.Position = position.String
	return &sc, nil
}

// ListScenarios lists scenarios of a given type
// @Summary List scenarios by type
// @Description List all scenarios of the given type ordered by difficulty then title
// @Tags scenarios
// @Produce json
// @Security BearerAuth
// @Param type path string true "Scenario type" Enums(gto, icm)
// @Success 200 {array} models.Scenario
// @Failure 400 {object} ErrorResponse "Invalid scenario type"
// @Failure 401 {string} string "Unauthorized"
// @Router /scenarios/{type} [get]
func (s *CatalogService) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarioType := chi.URLParam(r, "type")
	if scenarioType != models.ScenarioTypeGTO && scenarioType != models.ScenarioTypeICM {
		SendErrorResponse(w, "Invalid scenario type", http.StatusBadRequest, nil)
		return
	}

	scenarios, err := s.ListByType(r.Context(), scenarioType)
	if err != nil {
		log.Printf("[CATALOG] Failed to list %s scenarios: %v", scenarioType, err)
		SendErrorResponse(w, "Failed to fetch scenarios", http.StatusInternalServerError, nil)
		return
	}

	if scenarios == nil {
		scenarios = []models.Scenario{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scenarios)
}

// GetScenario fetches a single scenario by id
// @Summary Get a scenario
// @Description Fetch one scenario with its action menu and optimal action
// @Tags scenarios
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scenario ID"
// @Success 200 {object} models.Scenario
// @Failure 400 {object} ErrorResponse "Invalid scenario id"
// @Failure 404 {object} ErrorResponse "Scenario not found"
// @Router /scenarios/single/{id} [get]
func (s *CatalogService) GetScenario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		SendErrorResponse(w, "Invalid scenario id", http.StatusBadRequest, nil)
		return
	}

	scenario, err := s.GetByID(r.Context(), id)
	if err == ErrScenarioNotFound {
		SendErrorResponse(w, "Scenario not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[CATALOG] Failed to fetch scenario %d: %v", id, err)
		SendErrorResponse(w, "Failed to fetch scenario", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scenario)
}
