package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"regiobon/globals"
	"regiobon/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := ValidateJWT(r.Header.Get("Authorization"))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or missing token")
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole gates a handler on an exact role. Admin endpoints use
// RequireRole(models.RoleAdmin, ...); owner endpoints likewise.
func RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if got, _ := r.Context().Value(globals.RoleKey).(string); got != role {
			utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next(w, r, ps)
	})
}

func ValidateJWT(header string) (*Claims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("invalid token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(header[7:], claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}
