package models

import (
	"time"

	"gorm.io/datatypes"
)

// IdempotencyKey records one processed mutating request so a retry with the
// same Idempotency-Key header replays the stored response instead of running
// the handler again.
type IdempotencyKey struct {
	ID             uint           `gorm:"primaryKey"`
	Key            string         `gorm:"size:128;uniqueIndex;not null"`
	RequestHash    string         `gorm:"size:64;not null"`
	Method         string         `gorm:"size:8"`
	Path           string         `gorm:"size:512"`
	ResponseStatus int            // 0 while the first request is in flight
	ResponseBody   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time
	CompletedAt    *time.Time
}
