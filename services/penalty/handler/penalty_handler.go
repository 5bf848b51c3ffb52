package handler

import (
	"context"
	"fmt"
	"net/http"

	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/services/helpers"
	"marketai/utils"

	"github.com/gin-gonic/gin"
)

type PenaltyServiceInterface interface {
	RecordOffense(ctx context.Context, userID string, offense models.OffenseType) (models.PenaltyRecord, error)
	ListPenalties(ctx context.Context, userID string) ([]models.PenaltyRecord, error)
	CheckStanding(ctx context.Context, userID string) (models.StandingReport, error)
}

type PenaltyHandler struct {
	service PenaltyServiceInterface
}

func NewPenaltyHandler(service PenaltyServiceInterface) *PenaltyHandler {
	return &PenaltyHandler{service: service}
}

// RecordOffenseHandler handles POST /users/:user_id/offenses (admin only)
func (h *PenaltyHandler) RecordOffenseHandler(c *gin.Context) {
	adminID, ok := helpers.RequireAdmin(c, "RecordOffenseHandler")
	if !ok {
		return
	}
	userID := c.Param("user_id")

	var req helpers.RecordOffenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordOffenseHandler", err)
		return
	}

	rec, err := h.service.RecordOffense(c.Request.Context(), userID, models.OffenseType(req.OffenseType))
	if err != nil {
		helpers.RespondError(c, "RecordOffenseHandler", "failed to record offense", err, map[string]any{
			"user_id":      userID,
			"offense_type": req.OffenseType,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, rec, "offense recorded successfully")
	helpers.LogSuccess("RecordOffenseHandler", "offense recorded successfully", map[string]any{
		"user_id":       userID,
		"offense_type":  rec.OffenseType,
		"offense_count": rec.OffenseCount,
		"penalty_tier":  rec.Tier,
		"recorded_by":   adminID,
	})
}

// ListPenaltiesHandler handles GET /users/:user_id/penalties. Users see only their own history.
func (h *PenaltyHandler) ListPenaltiesHandler(c *gin.Context) {
	actorID, isAdmin, ok := helpers.RequireActor(c, "ListPenaltiesHandler")
	if !ok {
		return
	}
	userID := c.Param("user_id")
	if userID != actorID && !isAdmin {
		err := fmt.Errorf("user %s listing penalties of %s: %w", actorID, userID, marketerrors.ErrPermissionDenied)
		helpers.RespondError(c, "ListPenaltiesHandler", "access denied", err, map[string]any{"user_id": userID})
		return
	}

	records, err := h.service.ListPenalties(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "ListPenaltiesHandler", "error listing penalties", err, map[string]any{"user_id": userID})
		return
	}
	if records == nil {
		records = []models.PenaltyRecord{}
	}

	utils.JSONResponse(c, http.StatusOK, records, "penalties retrieved successfully")
}

// GetStandingHandler handles GET /users/:user_id/standing
func (h *PenaltyHandler) GetStandingHandler(c *gin.Context) {
	userID := c.Param("user_id")
	report, err := h.service.CheckStanding(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "GetStandingHandler", "error checking standing", err, map[string]any{"user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, report, "standing retrieved successfully")
}
