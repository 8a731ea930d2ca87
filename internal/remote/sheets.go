package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/finad-dev/finad/internal/model"
)

// SheetsClient posts records to a spreadsheet web app endpoint.
type SheetsClient struct {
	url  string
	http *http.Client
}

// NewSheetsClient creates a client for the web app at url. A nil client
// uses http.DefaultClient.
func NewSheetsClient(url string, client *http.Client) *SheetsClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetsClient{url: url, http: client}
}

type sheetBill struct {
	Action string `json:"action"`
	BillRecord
}

type sheetBudget struct {
	Action string `json:"action"`
	BudgetRecord
}

// SyncBill sends an addBill action.
func (c *SheetsClient) SyncBill(ctx context.Context, e model.Expense) error {
	return c.post(ctx, sheetBill{Action: "addBill", BillRecord: NewBillRecord(e)})
}

// SyncBudget sends an updateBudget action.
func (c *SheetsClient) SyncBudget(ctx context.Context, ch BudgetChange) error {
	return c.post(ctx, sheetBudget{Action: "updateBudget", BudgetRecord: NewBudgetRecord(ch)})
}

func (c *SheetsClient) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding sheet payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building sheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting to sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheet responded %s: %s", resp.Status, bytes.TrimSpace(msg))
	}
	return nil
}
