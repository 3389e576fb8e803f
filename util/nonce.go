package util

import (
	"github.com/google/uuid"
	"strings"
)

// GenerateSessionId returns a random 32 character hex identifier, used to correlate requests with their replies.
//
func GenerateSessionId() string {
	return strings.Replace(uuid.New().String(), "-", "", -1)
}
