package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(getenv("JWT_SECRET", "change_me_in_production"))

// VoucherSecret signs the QR payloads shops print for voucher redemption.
var VoucherSecret = []byte(getenv("VOUCHER_SECRET", "change_me_too"))

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

var Ctx = context.Background()

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
