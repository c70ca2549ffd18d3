package utils

import (
	rndm "math/rand"
	"net/http"
	"strings"

	"regiobon/globals"

	"github.com/google/uuid"
)

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateID creates a random alphanumeric string of length n, used for
// marketplace entity IDs (shops, items, reviews).
func GenerateID(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

func GetUUID() string {
	return uuid.New().String()
}

func Trim(s string) string {
	return strings.TrimSpace(s)
}

func GetUserIDFromRequest(r *http.Request) string {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func GetRoleFromRequest(r *http.Request) string {
	role, ok := r.Context().Value(globals.RoleKey).(string)
	if !ok {
		return ""
	}
	return role
}
