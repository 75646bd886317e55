package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/AzsddceOfMagic/Pokeroker/internal/config"
	"github.com/AzsddceOfMagic/Pokeroker/internal/models"
	"github.com/AzsddceOfMagic/Pokeroker/internal/services"
)

type BotHandler struct {
	service   *services.BotService
	cfg       *config.TrainingConfig
	validator *services.ValidationHelper
}

func NewBotHandler(service *services.BotService, cfg *config.TrainingConfig) *BotHandler {
	return &BotHandler{
		service:   service,
		cfg:       cfg,
		validator: services.NewValidationHelper(),
	}
}

// StartSession opens a bot practice sitting for a fixed credit cost
// @Summary Start a bot practice session
// @Description Deduct the fixed session cost and issue a session handle
// @Tags bot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{botType=string,difficulty=string} true "Session request"
// @Success 200 {object} services.StartedSession
// @Failure 400 {object} services.ErrorResponse
// @Failure 402 {object} services.ErrorResponse "Insufficient credits"
// @Failure 503 {object} services.ErrorResponse "Bot practice unavailable"
// @Router /bot/session [post]
func (h *BotHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req struct {
		BotType    string `json:"botType" validate:"required,oneof=gto lag tag"`
		Difficulty string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced expert"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
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

	started, err := h.service.StartSession(r.Context(), userID, req.BotType, req.Difficulty)
	switch err {
	case nil:
	case services.ErrInsufficientCredits:
		services.SendErrorResponse(w, "Insufficient credits", http.StatusPaymentRequired, nil)
		return
	case services.ErrAccountNotFound:
		services.SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		return
	case services.ErrBotPracticeOffline:
		services.SendErrorResponse(w, "Bot practice is temporarily unavailable", http.StatusServiceUnavailable, nil)
		return
	default:
		log.Printf("[BOT] StartSession - Service error: %v", err)
		services.SendErrorResponse(w, "Failed to start session", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(started)
}

// EndSession closes a bot practice sitting using its handle
// @Summary End a bot practice session
// @Description Close a session by handle, recording the final stats into progress
// @Tags bot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{handle=string,handsPlayed=int,handsWon=int,totalProfit=number} true "Final stats"
// @Success 200 {object} models.BotSession
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse "Session not found or expired"
// @Router /bot/session/end [put]
func (h *BotHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req struct {
		Handle      string  `json:"handle" validate:"required,uuid4"`
		HandsPlayed int     `json:"handsPlayed" validate:"gte=0"`
		HandsWon    int     `json:"handsWon" validate:"gte=0"`
		TotalProfit float64 `json:"totalProfit"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
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

	if req.HandsWon > req.HandsPlayed {
		services.SendErrorResponse(w, "Hands won cannot exceed hands played", http.StatusBadRequest, nil)
		return
	}

	session, err := h.service.EndSession(r.Context(), req.Handle, models.BotFinalStats{
		HandsPlayed: req.HandsPlayed,
		HandsWon:    req.HandsWon,
		TotalProfit: req.TotalProfit,
	})
	switch err {
	case nil:
	case services.ErrSessionNotFound:
		services.SendErrorResponse(w, "Session not found or expired", http.StatusNotFound, nil)
		return
	case services.ErrBotPracticeOffline:
		services.SendErrorResponse(w, "Bot practice is temporarily unavailable", http.StatusServiceUnavailable, nil)
		return
	default:
		log.Printf("[BOT] EndSession - Service error: %v", err)
		services.SendErrorResponse(w, "Failed to end session", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

// ListSessions lists the user's recent bot sittings
// @Summary List recent bot sessions
// @Description List the authenticated user's recent bot practice sessions, newest first
// @Tags bot
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BotSession
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /bot/sessions [get]
func (h *BotHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	sessions, err := h.service.RecentSessions(r.Context(), userID, h.cfg.SessionHistoryLimit)
	if err != nil {
		log.Printf("[BOT] ListSessions - Service error: %v", err)
		services.SendErrorResponse(w, "Failed to fetch sessions", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}
