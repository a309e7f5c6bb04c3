package analyzer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"resty.dev/v3"
)

// Result is one analyzer finding: an entity type and the character offsets
// of the matched span. Offsets are rune indices into the submitted text,
// not byte indices.
type Result struct {
	EntityType string `json:"entity_type"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// analyzeRequest is the wire request for the /analyze endpoint
type analyzeRequest struct {
	Text     string   `json:"text"`
	Entities []string `json:"entities"`
	Language string   `json:"language"`
}

// Config contains analyzer service configuration
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerMin int           `yaml:"requests_per_min" mapstructure:"requests_per_min"`
}

// Client calls a remote rule+model PII analyzer (a Presidio-style service
// exposing POST /analyze).
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New creates an analyzer client
func New(config *Config, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout)

	var limiter *rate.Limiter
	if config.RequestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(config.RequestsPerMin)/60.0), config.RequestsPerMin)
	}

	logger.Info("Analyzer client initialized",
		zap.String("base_url", config.BaseURL),
		zap.Duration("timeout", config.Timeout),
		zap.Int("requests_per_min", config.RequestsPerMin),
	)

	return &Client{
		http:    httpClient,
		limiter: limiter,
		logger:  logger,
	}
}

// Analyze submits text with the requested entity types and language, and
// returns offset-based results.
func (c *Client) Analyze(ctx context.Context, text string, entities []string, language string) ([]Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("analyzer rate limit wait: %w", err)
		}
	}

	var results []Result
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(analyzeRequest{
			Text:     text,
			Entities: entities,
			Language: language,
		}).
		SetResult(&results).
		// Decode the body as JSON even when the service misdeclares its
		// content type; otherwise results silently stay empty.
		SetForceResponseContentType("application/json").
		Post("/analyze")

	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}

	if res.IsError() {
		c.logger.Warn("Analyzer returned error status",
			zap.Int("status", res.StatusCode()),
			zap.String("response", res.String()),
		)
		return nil, fmt.Errorf("analyzer returned HTTP %d", res.StatusCode())
	}

	c.logger.Debug("Analyzer call complete", zap.Int("results", len(results)))
	return results, nil
}

// Close releases client resources
func (c *Client) Close() error {
	return c.http.Close()
}
