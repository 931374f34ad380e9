package tool

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

func GenerateRandomUUID() string {
	return uuid.New().String()
}

// GenerateShortID returns a short hex id (8 chars) used to tag colorize jobs in logs.
func GenerateShortID() string {
	b := make([]byte, 4) // 4 bytes = 8 hex chars
	if _, err := rand.Read(b); err != nil {
		return GenerateRandomUUID()[:8] // fallback
	}
	return hex.EncodeToString(b)
}

// GenerateToken returns 32 hex chars. Used for client ids, preview ids and session tokens
// the auth backend did not issue.
func GenerateToken() string {
	return strings.ReplaceAll(GenerateRandomUUID(), "-", "")
}
