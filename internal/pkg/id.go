package pkg

import (
	"github.com/google/uuid"
)

func GenerateNewSessionID() string {
	return uuid.NewString()
}

func GenerateRequestID() string {
	return uuid.NewString()
}

// IsValidSessionID - session ids are canonical uuids.
func IsValidSessionID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}
