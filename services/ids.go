package services

import "github.com/google/uuid"

// newID returns a time-ordered UUID so ids sort roughly by creation.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
