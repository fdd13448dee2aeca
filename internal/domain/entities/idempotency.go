package entities

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord caches the response of a mutating request so a client
// retrying with the same key gets the original outcome instead of a
// duplicate side effect.
type IdempotencyRecord struct {
	Id         uuid.UUID
	Key        string
	Request    string
	Response   string
	StatusCode int
	CreatedAt  time.Time
}

func NewIdempotencyRecord(key, request string) *IdempotencyRecord {
	return &IdempotencyRecord{
		Id:        uuid.New(),
		Key:       key,
		Request:   request,
		CreatedAt: time.Now(),
	}
}

func (r *IdempotencyRecord) SetResponse(response string, statusCode int) {
	r.Response = response
	r.StatusCode = statusCode
}
