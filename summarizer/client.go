package summarizer

import (
	"context"
	"errors"

	"github.com/LilVoxy/survey_report/config"
	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/utils"
)

// ErrCollaboratorUnavailable wraps every failure of the summarization service
var ErrCollaboratorUnavailable = errors.New("summarization service unavailable")

// Client is implemented by every summarization backend
type Client interface {
	Summarize(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResponse, error)
}

// New picks the backend from the configuration: the HTTP service when a URL
// is configured, Gemini when an API key is present, otherwise nil.
func New(cfg config.SummarizerConfig, logger *utils.Logger) (Client, error) {
	switch {
	case cfg.URL != "":
		logger.Info("Summarization via HTTP service %s", cfg.URL)
		return NewHTTPClient(cfg.URL, cfg.APIToken), nil
	case cfg.GenAIAPIKey != "":
		logger.Info("Summarization via Gemini model %s", cfg.GenAIModel)
		client, err := NewGenAIClient(context.Background(), cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	logger.Info("No summarization service configured, reports will have no recommendations")
	return nil, nil
}
