package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/AzsddceOfMagic/Pokeroker/internal/config"
	"github.com/AzsddceOfMagic/Pokeroker/internal/services"
)

type TrainingHandler struct {
	service   *services.TrainingService
	cfg       *config.TrainingConfig
	validator *services.ValidationHelper
}

func NewTrainingHandler(service *services.TrainingService, cfg *config.TrainingConfig) *TrainingHandler {
	return &TrainingHandler{
		service:   service,
		cfg:       cfg,
		validator: services.NewValidationHelper(),
	}
}

// SubmitSession scores a scenario decision and spends the scenario's cost
// @Summary Submit a scenario decision
// @Description Spend the scenario's credit cost, score the chosen action and update progress
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{scenarioId=int,chosenAction=string,timeSpent=int} true "Decision"
// @Success 200 {object} services.SubmitResult
// @Failure 400 {object} services.ErrorResponse "Invalid action or request"
// @Failure 402 {object} services.ErrorResponse "Insufficient credits"
// @Failure 404 {object} services.ErrorResponse "Scenario or account not found"
// @Failure 500 {object} services.ErrorResponse
// @Router /training/session [post]
func (h *TrainingHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req struct {
		ScenarioID   int    `json:"scenarioId" validate:"required,gt=0"`
		ChosenAction string `json:"chosenAction" validate:"required"`
		TimeSpent    int    `json:"timeSpent" validate:"gte=0"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		log.Printf("[TRAINING] SubmitSession - Decode error: %v", err)
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	result, err := h.service.SubmitDecision(r.Context(), userID, req.ScenarioID, req.ChosenAction, req.TimeSpent)
	switch err {
	case nil:
	case services.ErrScenarioNotFound:
		services.SendErrorResponse(w, "Scenario not found", http.StatusNotFound, nil)
		return
	case services.ErrInvalidAction:
		services.SendErrorResponse(w, "Action is not part of this scenario", http.StatusBadRequest, nil)
		return
	case services.ErrInsufficientCredits:
		services.SendErrorResponse(w, "Insufficient credits", http.StatusPaymentRequired, nil)
		return
	case services.ErrAccountNotFound:
		services.SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		return
	default:
		log.Printf("[TRAINING] SubmitSession - Service error: %v", err)
		services.SendErrorResponse(w, "Failed to submit decision", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ListSessions lists the user's recent scenario attempts
// @Summary List recent training sessions
// @Description List the authenticated user's recent scenario attempts, newest first
// @Tags training
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.TrainingSession
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /training/sessions [get]
func (h *TrainingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	sessions, err := h.service.RecentSessions(r.Context(), userID, h.cfg.SessionHistoryLimit)
	if err != nil {
		log.Printf("[TRAINING] ListSessions - Service error: %v", err)
		services.SendErrorResponse(w, "Failed to fetch sessions", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}
