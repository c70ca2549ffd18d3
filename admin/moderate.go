// Package admin exposes the moderation workflow over HTTP: pending-report
// queues, moderation verdicts, warning/removal endpoints and the audit log.
package admin

import (
	"encoding/json"
	"net/http"

	"regiobon/apperr"
	"regiobon/moderation"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	engine *moderation.Engine
}

func NewHandler(engine *moderation.Engine) *Handler {
	return &Handler{engine: engine}
}

type verdictPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func parseReportID(ps httprouter.Params) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("reportId"))
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("Invalid report ID format")
	}
	return id, nil
}

// ModerateReview handles POST /api/admin/moderate/review/:reportId.
func (h *Handler) ModerateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	reportID, err := parseReportID(ps)
	if err != nil {
		return err
	}

	var payload verdictPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	action, err := moderation.ParseAction(payload.Action)
	if err != nil {
		return err
	}

	result, err := h.engine.ModerateReview(r.Context(), utils.GetUserIDFromRequest(r), reportID, action, utils.Trim(payload.Reason))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
	return nil
}

// ModerateShop handles POST /api/admin/moderate/shop/:reportId.
func (h *Handler) ModerateShop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	reportID, err := parseReportID(ps)
	if err != nil {
		return err
	}

	var payload verdictPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	action, err := moderation.ParseAction(payload.Action)
	if err != nil {
		return err
	}

	result, err := h.engine.ModerateShop(r.Context(), utils.GetUserIDFromRequest(r), reportID, action, utils.Trim(payload.Reason))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
	return nil
}

// DismissReport handles POST /api/admin/reports/:reportId/dismiss.
func (h *Handler) DismissReport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	reportID, err := parseReportID(ps)
	if err != nil {
		return err
	}

	var payload struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	result, err := h.engine.DismissReport(r.Context(), utils.GetUserIDFromRequest(r), reportID, utils.Trim(payload.Reason))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
	return nil
}
