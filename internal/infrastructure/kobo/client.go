package kobo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/leak-priority-service/internal/config"
	"github.com/leak-priority-service/internal/domain"
	"github.com/leak-priority-service/internal/domain/repository"
	apperrors "github.com/leak-priority-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	logger     *zap.Logger
}

// NewClient creates a submission source client for the KoboToolbox data API.
func NewClient(cfg *config.SourceConfig, logger *zap.Logger) repository.SubmissionSource {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		apiURL: cfg.APIURL,
		token:  cfg.Token,
		logger: logger,
	}
}

// Fetch retrieves all current form submissions. An empty payload is a valid
// "no data" result; any transport failure maps to ErrSourceUnavailable.
func (c *client) Fetch(ctx context.Context) ([]domain.RawSubmission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, apperrors.ErrSourceUnavailable.Wrap(err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, apperrors.ErrSourceUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Submission source returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, apperrors.ErrSourceUnavailable.Wrap(
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var submissions []domain.RawSubmission
	if err := json.NewDecoder(resp.Body).Decode(&submissions); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, apperrors.ErrSourceUnavailable.Wrap(err)
	}

	c.logger.Debug("Submission source fetch successful",
		zap.Int("count", len(submissions)))

	return submissions, nil
}
