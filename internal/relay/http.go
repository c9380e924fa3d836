package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cosmic/internal/domain"
)

// HistoryClient fetches room history over HTTP.
type HistoryClient struct {
	Endpoints Endpoints
	HTTP      *http.Client
}

func NewHistoryClient(ep Endpoints, hc *http.Client) *HistoryClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HistoryClient{Endpoints: ep, HTTP: hc}
}

// FetchHistory returns up to limit records, oldest first.
func (c *HistoryClient) FetchHistory(ctx context.Context, room domain.RoomID, limit int) ([]domain.HistoryRecord, error) {
	var out struct {
		Messages []domain.HistoryRecord `json:"messages"`
	}
	if err := c.getJSON(ctx, c.Endpoints.HistoryURL(room, limit), &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *HistoryClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay get %s: %s", u, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("relay get %s: decode: %w", u, err)
	}
	return nil
}

var _ domain.HistoryClient = (*HistoryClient)(nil)
