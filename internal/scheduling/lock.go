package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lineflow-mfg/lineflow-backend/pkg/redis"
)

const runLockKey = "scheduler:run-lock"

// RunLock serializes assignment runs across API replicas with a redis
// SETNX lease. The token ties release to the acquiring run so an expired
// holder cannot free a successor's lock.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
	token  string
}

func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{client: client, ttl: ttl}
}

// Acquire attempts to take the lock, reporting whether it won.
func (l *RunLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, runLockKey, token, l.ttl)
	if err != nil {
		return false, err
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release frees the lock if this instance still holds it.
func (l *RunLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	current, err := l.client.Get(ctx, runLockKey)
	if err != nil {
		return err
	}
	if current != l.token {
		return nil
	}
	l.token = ""
	return l.client.Del(ctx, runLockKey)
}
