package postgresql

import "github.com/google/uuid"

// newID returns a time-ordered UUID so primary keys index in insertion order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
