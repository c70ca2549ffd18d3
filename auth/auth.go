package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"regiobon/apperr"
	"regiobon/db"
	"regiobon/models"
	"regiobon/rdx"
	"regiobon/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func Register(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}

	input.Username = utils.Trim(input.Username)
	input.Email = utils.Trim(input.Email)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return apperr.BadRequest("Username, email and password are required")
	}

	// Shoppers by default; owners register explicitly. Admins are seeded
	// out of band, never through this endpoint.
	role := models.RoleShopper
	if input.Role == models.RoleOwner {
		role = models.RoleOwner
	}

	count, err := db.UserCollection.CountDocuments(r.Context(), bson.M{"username": input.Username})
	if err != nil {
		return apperr.Internal("Failed to check existing users", err)
	}
	if count > 0 {
		return apperr.Conflict("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("Failed to hash password", err)
	}

	user := models.User{
		UserID:    utils.GenerateID(16),
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      role,
		Name:      utils.Trim(input.Name),
		Warnings:  []models.Warning{},
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := db.UserCollection.InsertOne(r.Context(), user); err != nil {
		return apperr.Internal("Failed to create user", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"userid":  user.UserID,
	})
	return nil
}

func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	if input.Username == "" || input.Password == "" {
		return apperr.BadRequest("Username and password are required")
	}

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{"username": input.Username}).Decode(&user)
	if err != nil {
		return apperr.New(http.StatusUnauthorized, "Invalid username or password")
	}
	if !user.IsActive {
		return apperr.Forbidden("Account has been deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return apperr.New(http.StatusUnauthorized, "Invalid username or password")
	}

	return issueTokens(r.Context(), w, user)
}

func RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	var input struct {
		UserID       string `json:"userid"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	if input.UserID == "" || input.RefreshToken == "" {
		return apperr.BadRequest("userid and refreshToken are required")
	}

	var user models.User
	err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": input.UserID}).Decode(&user)
	if err != nil {
		return apperr.New(http.StatusUnauthorized, "Invalid refresh token")
	}
	if !user.IsActive {
		return apperr.Forbidden("Account has been deactivated")
	}
	if user.RefreshToken != hashToken(input.RefreshToken) || time.Now().After(user.RefreshExpiry) {
		return apperr.New(http.StatusUnauthorized, "Invalid refresh token")
	}

	return issueTokens(r.Context(), w, user)
}

func issueTokens(ctx context.Context, w http.ResponseWriter, user models.User) error {
	accessToken, err := generateAccessToken(user)
	if err != nil {
		return apperr.Internal("Failed to generate token", err)
	}
	refreshToken, err := generateRefreshToken()
	if err != nil {
		return apperr.Internal("Failed to generate refresh token", err)
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{
			"refreshtoken": hashToken(refreshToken),
			"refreshexp":   time.Now().Add(refreshTokenTTL),
			"last_login":   time.Now(),
		}},
	)
	if err != nil {
		return apperr.Internal("Failed to store refresh token", err)
	}

	// Session cache; losing it only costs a Mongo round trip elsewhere.
	if err := rdx.RdxHset("sessions", user.UserID, accessToken); err != nil {
		log.Warn().Err(err).Str("userid", user.UserID).Msg("auth: redis session cache failed")
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":      true,
		"token":        accessToken,
		"refreshToken": refreshToken,
		"userid":       user.UserID,
		"role":         user.Role,
	})
	return nil
}
