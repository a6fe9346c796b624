package model

import (
	"time"
)

// StatusCheck represents a status check document. ID and Timestamp are always
// assigned by the server.
type StatusCheck struct {
	ID         string    `json:"id" bson:"id"`
	ClientName string    `json:"client_name" bson:"client_name"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// StatusCheckCreate is the request body accepted by POST /api/status
type StatusCheckCreate struct {
	ClientName *string `json:"client_name" validate:"required"`
}
