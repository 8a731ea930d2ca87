package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/finad-dev/finad/internal/model"
)

const (
	BillsKey   = "finad:bills"
	BudgetsKey = "finad:budgets"
)

// RedisArchiver appends JSON records to Redis lists.
type RedisArchiver struct {
	rdb *redis.Client
}

// NewRedisArchiver wraps an existing client.
func NewRedisArchiver(rdb *redis.Client) *RedisArchiver {
	return &RedisArchiver{rdb: rdb}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*RedisArchiver, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisArchiver(rdb), nil
}

// Close releases the client.
func (a *RedisArchiver) Close() error { return a.rdb.Close() }

// SyncBill pushes the bill onto the bills list.
func (a *RedisArchiver) SyncBill(ctx context.Context, e model.Expense) error {
	return a.push(ctx, BillsKey, NewBillRecord(e))
}

// SyncBudget pushes the change onto the budgets list.
func (a *RedisArchiver) SyncBudget(ctx context.Context, c BudgetChange) error {
	return a.push(ctx, BudgetsKey, NewBudgetRecord(c))
}

func (a *RedisArchiver) push(ctx context.Context, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record for %s: %w", key, err)
	}
	if err := a.rdb.RPush(ctx, key, string(data)).Err(); err != nil {
		return fmt.Errorf("pushing to %s: %w", key, err)
	}
	return nil
}
