package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/LilVoxy/survey_report/models"
)

// maxResponseSize limits how much of the service response is read
const maxResponseSize = 4 << 20

// HTTPClient posts the request as JSON to the summarization service
type HTTPClient struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient. Timeouts come from the caller's context.
func NewHTTPClient(url, token string) *HTTPClient {
	return &HTTPClient{
		url:        url,
		token:      token,
		httpClient: &http.Client{},
	}
}

// Summarize performs one request; it does not retry
func (c *HTTPClient) Summarize(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrCollaboratorUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil, fmt.Errorf("%w: status %d", ErrCollaboratorUnavailable, resp.StatusCode)
	}

	var summary models.SummaryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&summary); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrCollaboratorUnavailable, err)
	}
	return &summary, nil
}
