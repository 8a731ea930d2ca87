package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finad-dev/finad/internal/model"
)

func bill() model.Expense {
	return model.Expense{
		ID:          "EXP-001",
		Date:        time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		Department:  "Technical Bills",
		Description: "AWS Cloud Hosting - Jan",
		Amount:      decimal.NewFromInt(45000),
		Status:      model.StatusPaid,
		Uploader:    "Admin",
	}
}

func TestSheetsClient_SyncBill(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, srv.Client())
	require.NoError(t, c.SyncBill(context.Background(), bill()))

	assert.Equal(t, "addBill", got["action"])
	assert.Equal(t, "EXP-001", got["id"])
	assert.Equal(t, "2026-02-23", got["date"])
	assert.Equal(t, 45000.0, got["amount"])
	assert.NotContains(t, got, "invoice")
}

func TestSheetsClient_SyncBudget(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
	}))
	defer srv.Close()

	c := NewSheetsClient(srv.URL, nil)
	require.NoError(t, c.SyncBudget(context.Background(), BudgetChange{Amount: decimal.NewFromInt(100000)}))
	assert.Equal(t, "updateBudget", got["action"])
	assert.Equal(t, "total", got["scope"])
	assert.NotContains(t, got, "department")
}

func TestSheetsClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := NewSheetsClient(srv.URL, srv.Client()).SyncBill(context.Background(), bill())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSheetsClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewSheetsClient(srv.URL, srv.Client()).SyncBill(ctx, bill())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisArchiver_SyncBill(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	data, err := json.Marshal(NewBillRecord(bill()))
	require.NoError(t, err)
	mock.ExpectRPush(BillsKey, string(data)).SetVal(1)

	a := NewRedisArchiver(rdb)
	require.NoError(t, a.SyncBill(context.Background(), bill()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisArchiver_SyncBudget(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	change := BudgetChange{Department: "Marketing Bills", Amount: decimal.NewFromInt(80000), At: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(NewBudgetRecord(change))
	require.NoError(t, err)
	mock.ExpectRPush(BudgetsKey, string(data)).SetErr(errors.New("connection refused"))

	err = NewRedisArchiver(rdb).SyncBudget(context.Background(), change)
	require.Error(t, err)
	assert.Contains(t, err.Error(), BudgetsKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recorder struct {
	bills int
	err   error
}

func (r *recorder) SyncBill(context.Context, model.Expense) error {
	r.bills++
	return r.err
}

func (r *recorder) SyncBudget(context.Context, BudgetChange) error { return r.err }

func TestMulti(t *testing.T) {
	ok := &recorder{}
	bad := &recorder{err: errors.New("down")}
	m := Multi{ok, bad, Nop{}}

	err := m.SyncBill(context.Background(), bill())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Equal(t, 1, ok.bills, "every syncer is called")
	assert.Equal(t, 1, bad.bills)

	assert.NoError(t, Multi{ok, Nop{}}.SyncBudget(context.Background(), BudgetChange{}))
}
