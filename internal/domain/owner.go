package domain

import (
	"time"

	"github.com/google/uuid"
)

// Owner is the operator account under which a set of customers is scoped.
type Owner struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
