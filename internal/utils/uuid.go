package utils

import "github.com/google/uuid"

// UUIDGenerator issues session identifiers for the stub settings API.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate prefers v7 UUIDs so identifiers created later compare greater,
// falling back to random v4 when the monotonic clock source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
