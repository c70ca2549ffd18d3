package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/models"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// WarnedUser is the listing shape for GET /api/admin/users.
type WarnedUser struct {
	UserID       string           `json:"userid"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	Role         string           `json:"role"`
	IsActive     bool             `json:"is_active"`
	WarningCount int              `json:"warning_count"`
	Warnings     []models.Warning `json:"warnings"`
}

// GetUsersWithWarnings handles GET /api/admin/users?minWarnings=. The
// database filter is existence-only; the minWarnings cut happens in memory
// on the (small) result set.
func (h *Handler) GetUsersWithWarnings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	minWarnings := 1
	if s := r.URL.Query().Get("minWarnings"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return apperr.BadRequest("minWarnings must be a positive integer")
		}
		minWarnings = v
	}

	cursor, err := db.UserCollection.Find(ctx, bson.M{"warnings.0": bson.M{"$exists": true}})
	if err != nil {
		return apperr.Internal("Failed to fetch users", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return apperr.Internal("Error processing users", err)
	}

	out := []WarnedUser{}
	for _, user := range users {
		if len(user.Warnings) < minWarnings {
			continue
		}
		out = append(out, WarnedUser{
			UserID:       user.UserID,
			Username:     user.Username,
			Email:        user.Email,
			Role:         user.Role,
			IsActive:     user.IsActive,
			WarningCount: len(user.Warnings),
			Warnings:     user.Warnings,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "users": out})
	return nil
}

// RemoveUser handles DELETE /api/admin/users/:userId.
func (h *Handler) RemoveUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var payload struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	result, err := h.engine.RemoveUser(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("userId"), utils.Trim(payload.Reason))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
	return nil
}

// WarnUser handles POST /api/admin/users/:userId/warn.
func (h *Handler) WarnUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}

	result, err := h.engine.WarnUser(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("userId"), utils.Trim(payload.Reason))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
	return nil
}

// WarnShop handles POST /api/admin/shops/:shopId/warn.
func (h *Handler) WarnShop(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}

	result, err := h.engine.WarnShop(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("shopId"), utils.Trim(payload.Reason))
	if err != nil {
		return err
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
	return nil
}
