package transform

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSummarizer records calls and replies with a canned response
type fakeSummarizer struct {
	mu       sync.Mutex
	calls    int
	lastReq  *models.SummaryRequest
	response *models.SummaryResponse
	err      error
	block    bool
}

func (f *fakeSummarizer) Summarize(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResponse, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.response, f.err
}

func sampleRows() []models.RawRow {
	return []models.RawRow{
		{Team: "Total", Question: "Return rate", Value: "80", Area: "Engagement"},
		{Team: "A", Question: "Filled questionnaires", Value: "8", Area: "Engagement"},
		scoreRow("A", "Workplace", "Q1", "4"),
		freeRow("A", "What would you improve?", "More feedback", "Feedback"),
		freeRow("A", "What would you improve?", "Quieter office", "Office"),
	}
}

func TestTransformSkipsSummarizerWithoutOpenAnswers(t *testing.T) {
	fake := &fakeSummarizer{}
	transformer := NewTransformer(fake, utils.NewNopLogger(), time.Second)

	report := transformer.Transform(context.Background(), []models.RawRow{
		scoreRow("A", "Workplace", "Q1", "4"),
		{Team: "A", Question: "Filled questionnaires", Value: "8", Area: "Engagement"},
	}, models.ReportMetadata{})

	assert.Equal(t, 0, fake.calls)
	assert.Empty(t, report.OpenQuestions)
	assert.Empty(t, report.Recommendations)
	assert.Empty(t, report.EngagementCommentary)
}

func TestTransformMergesSanitizedSummary(t *testing.T) {
	fake := &fakeSummarizer{response: &models.SummaryResponse{
		Recommendations: []models.TeamRecommendations{
			{TeamName: "A", Questions: []models.QuestionRecommendations{
				{QuestionText: "What would you improve?", Items: []models.Recommendation{
					{Title: "Feedback loop", Description: "Hold regular 1:1s", Quotes: []string{"More feedback", "Invented quote"}},
					{Title: "Office", Quotes: []string{"Quieter office"}},
					{Title: "Third"},
					{Title: "Fourth, over the limit"},
				}},
				{QuestionText: "Unknown question", Items: []models.Recommendation{{Title: "x"}}},
			}},
			{TeamName: "Ghost team"},
		},
		EngagementCommentary: []models.EngagementCommentary{
			{TeamName: "A", Summary: "Good participation", Recommendation: "Keep it up"},
			{TeamName: "Ghost team", Summary: "?"},
		},
	}}
	transformer := NewTransformer(fake, utils.NewNopLogger(), time.Second)

	report := transformer.Transform(context.Background(), sampleRows(), models.ReportMetadata{})

	require.Equal(t, 1, fake.calls)
	req := fake.lastReq
	require.Len(t, req.Teams, 1)
	assert.Equal(t, "80%", req.CompanyResponseRate)
	assert.Equal(t, []models.AnswerEntry{
		{Text: "More feedback", Theme: "Feedback"},
		{Text: "Quieter office", Theme: "Office"},
	}, req.Teams[0].Questions[0].Answers)
	require.Len(t, req.Engagement, 1)
	assert.Equal(t, 8, req.Engagement[0].ResponseCount)

	require.Len(t, report.Recommendations, 1)
	questions := report.Recommendations[0].Questions
	require.Len(t, questions, 1)
	items := questions[0].Items
	require.Len(t, items, MaxRecommendationsPerQuestion)
	assert.Equal(t, []string{"More feedback"}, items[0].Quotes)
	assert.Equal(t, []string{"Quieter office"}, items[1].Quotes)
	assert.Empty(t, items[2].Quotes)

	assert.Equal(t, []models.EngagementCommentary{
		{TeamName: "A", Summary: "Good participation", Recommendation: "Keep it up"},
	}, report.EngagementCommentary)
}

func TestTransformLimitsQuotes(t *testing.T) {
	rows := []models.RawRow{}
	var quotes []string
	for _, text := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		rows = append(rows, freeRow("A", "Q", text, ""))
		quotes = append(quotes, text)
	}
	fake := &fakeSummarizer{response: &models.SummaryResponse{
		Recommendations: []models.TeamRecommendations{{TeamName: "A", Questions: []models.QuestionRecommendations{
			{QuestionText: "Q", Items: []models.Recommendation{{Title: "t", Quotes: quotes}}},
		}}},
	}}

	report := NewTransformer(fake, nil, 0).Transform(context.Background(), rows, models.ReportMetadata{})
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, report.Recommendations[0].Questions[0].Items[0].Quotes)
}

func TestTransformToleratesSummarizerFailure(t *testing.T) {
	fake := &fakeSummarizer{err: errors.New("connection refused")}
	report := NewTransformer(fake, utils.NewNopLogger(), time.Second).Transform(context.Background(), sampleRows(), models.ReportMetadata{})

	assert.Equal(t, 1, fake.calls)
	require.Len(t, report.OpenQuestions, 1)
	assert.NotNil(t, report.Recommendations)
	assert.Empty(t, report.Recommendations)
	assert.Empty(t, report.EngagementCommentary)
}

func TestTransformToleratesNilResponse(t *testing.T) {
	fake := &fakeSummarizer{}
	report := NewTransformer(fake, utils.NewNopLogger(), time.Second).Transform(context.Background(), sampleRows(), models.ReportMetadata{})
	assert.Equal(t, 1, fake.calls)
	assert.Empty(t, report.Recommendations)
}

func TestTransformTimesOutSummarizer(t *testing.T) {
	fake := &fakeSummarizer{block: true}
	transformer := NewTransformer(fake, utils.NewNopLogger(), 20*time.Millisecond)

	start := time.Now()
	report := transformer.Transform(context.Background(), sampleRows(), models.ReportMetadata{})

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Empty(t, report.Recommendations)
	require.Len(t, report.Areas, 1)
}

func TestTransformWithoutSummarizer(t *testing.T) {
	report := NewTransformer(nil, utils.NewNopLogger(), time.Second).Transform(context.Background(), sampleRows(), models.ReportMetadata{})
	require.Len(t, report.OpenQuestions, 1)
	assert.Empty(t, report.Recommendations)
}

func TestTransformReportsProgress(t *testing.T) {
	fake := &fakeSummarizer{response: &models.SummaryResponse{}}
	transformer := NewTransformer(fake, utils.NewNopLogger(), time.Second)

	var stages []Stage
	transformer.TransformWithProgress(context.Background(), sampleRows(), models.ReportMetadata{}, func(stage Stage) {
		stages = append(stages, stage)
	})
	assert.Equal(t, []Stage{StageClassified, StageAggregated, StageSummarizing, StageCompleted}, stages)

	stages = nil
	transformer.TransformWithProgress(context.Background(), nil, models.ReportMetadata{}, func(stage Stage) {
		stages = append(stages, stage)
	})
	assert.Equal(t, []Stage{StageClassified, StageAggregated, StageCompleted}, stages)
}
