package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/LilVoxy/survey_report/models"
	"google.golang.org/genai"
)

const defaultGenAIModel = "gemini-2.0-flash"

// GenAIClient asks a Gemini model for the summary and expects a JSON answer
type GenAIClient struct {
	client *genai.Client
	model  string
}

// NewGenAIClient creates a GenAIClient for the Gemini API
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultGenAIModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model}, nil
}

// Summarize sends one prompt built from the request
func (c *GenAIClient) Summarize(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResponse, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}

	return ParseModelResponse(result.Text())
}

// BuildPrompt renders the instructions and the request data for the model
func BuildPrompt(req *models.SummaryRequest) (string, error) {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You analyse employee survey answers.\n")
	b.WriteString("For every team and every question give at most 3 recommendations ")
	b.WriteString("with a title, a description and at most 5 quotes. ")
	b.WriteString("Quotes must be copied verbatim from the supplied answers, never invented.\n")
	b.WriteString("For every team in \"engagement\" add a short summary and a recommendation ")
	b.WriteString("about its participation, considering the company response rate.\n")
	b.WriteString("Answer with JSON only, in this shape:\n")
	b.WriteString(`{"recommendations":[{"teamName":"","questions":[{"questionText":"","items":[{"title":"","description":"","quotes":[""]}]}]}],`)
	b.WriteString(`"engagement":[{"teamName":"","summary":"","recommendation":""}]}`)
	b.WriteString("\n\nData:\n")
	b.Write(data)
	return b.String(), nil
}

// ParseModelResponse decodes the model output, tolerating a Markdown code fence
func ParseModelResponse(text string) (*models.SummaryResponse, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty model response", ErrCollaboratorUnavailable)
	}

	var summary models.SummaryResponse
	if err := json.Unmarshal([]byte(s), &summary); err != nil {
		return nil, fmt.Errorf("%w: malformed model response: %v", ErrCollaboratorUnavailable, err)
	}
	return &summary, nil
}
