package dao

import (
	"time"

	"github.com/google/uuid"
)

type Recipient struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}
