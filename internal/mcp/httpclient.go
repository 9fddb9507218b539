package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/mesoplan/internal/models"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the MesoPlan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// library and plans live on the server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent on writes.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any, want int) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != want {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}
	return data, nil
}

func (c *HTTPClient) FindExercises(ctx context.Context, filter models.ExerciseFilter, exclude []string, limit int) ([]models.Exercise, error) {
	params := url.Values{}
	if filter.Category != "" {
		params.Set("category", string(filter.Category))
	}
	if filter.Pattern != "" {
		params.Set("pattern", filter.Pattern)
	}
	if filter.PrimaryMuscle != "" {
		params.Set("muscle", filter.PrimaryMuscle)
	}
	if len(exclude) > 0 {
		params.Set("exclude", strings.Join(exclude, ","))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/api/v1/exercises", params, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) GetPlan(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/plans/"+id.String(), nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var plan models.Plan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("httpclient: decode plan: %w", err)
	}
	return &plan, nil
}

func (c *HTTPClient) ListPlans(ctx context.Context) ([]models.PlanSummary, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/plans", nil, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var plans []models.PlanSummary
	if err := json.Unmarshal(body, &plans); err != nil {
		return nil, fmt.Errorf("httpclient: decode plans: %w", err)
	}
	return plans, nil
}

// SavePlan uploads a locally generated plan.
func (c *HTTPClient) SavePlan(ctx context.Context, plan *models.Plan) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/plans/"+plan.ID.String(), nil, plan, http.StatusCreated)
	return err
}
