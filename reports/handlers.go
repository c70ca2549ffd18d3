package reports

import (
	"encoding/json"
	"net/http"

	"regiobon/apperr"
	"regiobon/models"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type submitPayload struct {
	ReviewID    string `json:"reviewId,omitempty"`
	ShopID      string `json:"shopId,omitempty"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// SubmitReviewReport handles POST /api/reports/review.
func (h *Handler) SubmitReviewReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}

	target := models.TargetRef{Kind: models.TargetReview, ID: utils.Trim(payload.ReviewID)}
	report, err := h.svc.Submit(r.Context(), utils.GetUserIDFromRequest(r), target,
		utils.Trim(payload.Category), utils.Trim(payload.Description))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "report": report})
	return nil
}

// SubmitShopReport handles POST /api/reports/shop.
func (h *Handler) SubmitShopReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}

	target := models.TargetRef{Kind: models.TargetShop, ID: utils.Trim(payload.ShopID)}
	report, err := h.svc.Submit(r.Context(), utils.GetUserIDFromRequest(r), target,
		utils.Trim(payload.Category), utils.Trim(payload.Description))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "report": report})
	return nil
}

// MyReports handles GET /api/reports/my-reports.
func (h *Handler) MyReports(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	list, err := h.svc.MyReports(r.Context(), utils.GetUserIDFromRequest(r))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "reports": list})
	return nil
}
