package postgres

import (
	"time"

	"github.com/google/uuid"
)

type IdempotencyModel struct {
	Id         uuid.UUID `gorm:"type:uuid;primary_key"`
	Key        string    `gorm:"uniqueIndex;not null"`
	Request    string
	Response   string
	StatusCode int
	CreatedAt  time.Time
}

func (IdempotencyModel) TableName() string {
	return "idempotency_records"
}
