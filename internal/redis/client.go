package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned when a session or session value does not exist.
var ErrNotFound = errors.New("not found in session store")

const maxTxRetries = 10

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// SessionData is the server side of a login. The JWT only carries its id.
type SessionData struct {
	EmployeeID uint      `json:"employee_id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func Initialize(redisURL string, ttl time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func valueKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}

// Session management
func (c *Client) SetSession(ctx context.Context, sessionID string, data *SessionData) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, sessionKey(sessionID), jsonData, c.ttl).Err()
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	val, err := c.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

// DeleteSession removes the session and every value stored under it.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	keys := []string{sessionKey(sessionID)}
	iter := c.rdb.Scan(ctx, 0, valueKey(sessionID, "*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan session values: %w", err)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Per-session values

func (c *Client) GetValue(ctx context.Context, sessionID, key string, dest interface{}) error {
	val, err := c.rdb.Get(ctx, valueKey(sessionID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get session value %s: %w", key, err)
	}
	return json.Unmarshal(val, dest)
}

func (c *Client) SetValue(ctx context.Context, sessionID, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal session value %s: %w", key, err)
	}
	return c.rdb.Set(ctx, valueKey(sessionID, key), jsonData, c.ttl).Err()
}

// UpdateValue loads the value into dest (zeroed when absent), runs mutate and
// writes dest back. dest must be a pointer. The read-modify-write is optimistic: a
// concurrent writer to the same key makes the transaction retry.
func (c *Client) UpdateValue(ctx context.Context, sessionID, key string, dest interface{}, mutate func() error) error {
	k := valueKey(sessionID, key)

	txf := func(tx *redis.Tx) error {
		// A retried attempt must not see the previous attempt's mutation.
		target := reflect.ValueOf(dest).Elem()
		target.Set(reflect.Zero(target.Type()))

		val, err := tx.Get(ctx, k).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(val, dest); err != nil {
				return fmt.Errorf("failed to unmarshal session value %s: %w", key, err)
			}
		}

		if err := mutate(); err != nil {
			return err
		}

		jsonData, err := json.Marshal(dest)
		if err != nil {
			return fmt.Errorf("failed to marshal session value %s: %w", key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, jsonData, c.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := c.rdb.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("session value %s: too much contention", key)
}

func (c *Client) DeleteValues(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = valueKey(sessionID, key)
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
