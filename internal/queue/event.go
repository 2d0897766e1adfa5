// Package queue defines auth events and moves them over RabbitMQ.
package queue

import "time"

// Event types.
const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
)

// DefaultQueue is the durable queue auth events are routed to.
const DefaultQueue = "auth.events"

// AuthEvent is published after a successful register or login.  It never
// contains credentials.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
