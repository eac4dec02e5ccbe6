package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ndthanh/spendlens/internal/domain"
	"github.com/ndthanh/spendlens/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// InsightsClient calls the server-side insight API. The endpoint is
// optional: callers treat any error here as "no server insights" and fall
// back to the local heuristic path.
type InsightsClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewInsightsClient creates a new InsightsClient.
func NewInsightsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *InsightsClient {
	return &InsightsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// GetServerInsights fetches the pre-computed insight set for a user.
func (c *InsightsClient) GetServerInsights(ctx context.Context, userID string) (*domain.ServerInsightResponse, error) {
	ctx, span := tracer.Start(ctx, "InsightsClient.GetServerInsights")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var serverResp domain.ServerInsightResponse

	result, err := c.cb.Execute(func() (any, error) {
		var innerErr error
		innerErr = resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/users/%s/insights", c.baseURL, userID)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("insight API returned status %d", resp.StatusCode)
			}

			serverResp = domain.ServerInsightResponse{}
			return json.NewDecoder(resp.Body).Decode(&serverResp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &serverResp, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "insights", Err: err}
	}

	return result.(*domain.ServerInsightResponse), nil
}
