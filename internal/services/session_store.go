package services

import (
	"context"

	"printcalc/internal/redis"
)

const (
	cartKey            = "cart"
	lastCalculationKey = "last_calculation"
)

// SessionStore holds per-session values. *redis.Client implements it;
// GetValue reports redis.ErrNotFound for missing values.
type SessionStore interface {
	GetValue(ctx context.Context, sessionID, key string, dest interface{}) error
	SetValue(ctx context.Context, sessionID, key string, value interface{}) error
	UpdateValue(ctx context.Context, sessionID, key string, dest interface{}, mutate func() error) error
	DeleteValues(ctx context.Context, sessionID string, keys ...string) error
}

// SessionRegistry tracks login sessions.
type SessionRegistry interface {
	SetSession(ctx context.Context, sessionID string, data *redis.SessionData) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

var (
	_ SessionStore    = (*redis.Client)(nil)
	_ SessionRegistry = (*redis.Client)(nil)
)
