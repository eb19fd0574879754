package transform

import (
	"context"
	"time"

	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/utils"
)

// Limits applied to the summarization response
const (
	MaxRecommendationsPerQuestion = 3
	MaxQuotesPerRecommendation    = 5
)

// Summarizer is the external summarization service
type Summarizer interface {
	Summarize(ctx context.Context, req *models.SummaryRequest) (*models.SummaryResponse, error)
}

// Stage names a step of the analysis, reported through ProgressFunc
type Stage string

const (
	StageClassified  Stage = "classified"
	StageAggregated  Stage = "aggregated"
	StageSummarizing Stage = "summarizing"
	StageCompleted   Stage = "completed"
)

// ProgressFunc receives the stages of one Transform call
type ProgressFunc func(stage Stage)

// Transformer runs the aggregation and merges in the summarization response
type Transformer struct {
	summarizer Summarizer
	logger     *utils.Logger
	timeout    time.Duration
}

// NewTransformer creates a Transformer. A nil summarizer disables enrichment.
func NewTransformer(summarizer Summarizer, logger *utils.Logger, timeout time.Duration) *Transformer {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Transformer{
		summarizer: summarizer,
		logger:     logger,
		timeout:    timeout,
	}
}

// Transform aggregates the rows and enriches the report. It always returns a report.
func (t *Transformer) Transform(ctx context.Context, rows []models.RawRow, meta models.ReportMetadata) *models.CanonicalReport {
	return t.TransformWithProgress(ctx, rows, meta, nil)
}

// TransformWithProgress is Transform with stage notifications
func (t *Transformer) TransformWithProgress(ctx context.Context, rows []models.RawRow, meta models.ReportMetadata, progress ProgressFunc) *models.CanonicalReport {
	startTime := time.Now()
	notify := func(stage Stage) {
		if progress != nil {
			progress(stage)
		}
	}

	t.logger.Info("Aggregating %d rows", len(rows))
	report, stats := aggregate(rows, meta, func(i int, c Classification) {
		t.logger.Debug("Row %d dropped: %s (team=%q, question=%q)", i+1, c.Reason, c.Row.Team, c.Row.Question)
	})
	notify(StageClassified)

	t.logger.Info("Rows routed: engagement=%d, open answers=%d, metrics=%d, dropped=%d",
		stats.Engagement, stats.OpenAnswers, stats.Metrics, stats.Dropped)
	notify(StageAggregated)

	if !report.HasOpenQuestions() {
		t.logger.Info("No open answers found, summarization skipped")
		notify(StageCompleted)
		return report
	}

	if t.summarizer == nil {
		t.logger.Debug("No summarization service configured")
		notify(StageCompleted)
		return report
	}

	notify(StageSummarizing)
	t.enrich(ctx, report)

	t.logger.Info("Analysis finished in %v", time.Since(startTime))
	notify(StageCompleted)
	return report
}

// enrich calls the summarization service once. Any failure leaves the
// report with empty recommendations and commentary.
func (t *Transformer) enrich(ctx context.Context, report *models.CanonicalReport) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req := BuildSummaryRequest(report)
	resp, err := t.summarizer.Summarize(ctx, req)
	if err != nil {
		t.logger.Warn("Summarization service unavailable, continuing without recommendations: %v", err)
		return
	}
	if resp == nil {
		t.logger.Warn("Summarization service returned an empty response")
		return
	}

	clean := SanitizeSummary(req, resp)
	report.Recommendations = clean.Recommendations
	report.EngagementCommentary = clean.EngagementCommentary
}

// BuildSummaryRequest collects the answers and engagement figures of a report
func BuildSummaryRequest(report *models.CanonicalReport) *models.SummaryRequest {
	req := &models.SummaryRequest{
		Teams:               make([]models.TeamAnswers, 0, len(report.OpenQuestions)),
		Engagement:          append([]models.EngagementRecord{}, report.Engagement...),
		CompanyResponseRate: report.Totals.SuccessRate,
	}

	for _, group := range report.OpenQuestions {
		team := models.TeamAnswers{
			TeamName:  group.TeamName,
			Questions: make([]models.QuestionAnswers, 0, len(group.Questions)),
		}
		for _, q := range group.Questions {
			answers := make([]models.AnswerEntry, 0, len(q.Answers))
			for i, text := range q.Answers {
				entry := models.AnswerEntry{Text: text}
				if i < len(q.AnswerThemes) {
					entry.Theme = q.AnswerThemes[i]
				}
				answers = append(answers, entry)
			}
			team.Questions = append(team.Questions, models.QuestionAnswers{
				QuestionText: q.QuestionText,
				Answers:      answers,
			})
		}
		req.Teams = append(req.Teams, team)
	}

	return req
}

// SanitizeSummary keeps only what the request allows: known teams and
// questions, at most MaxRecommendationsPerQuestion items with at most
// MaxQuotesPerRecommendation quotes, and only quotes that are literal answers.
func SanitizeSummary(req *models.SummaryRequest, resp *models.SummaryResponse) *models.SummaryResponse {
	answers := make(map[string]map[string]map[string]bool) // team -> question -> answer
	for _, team := range req.Teams {
		questions := make(map[string]map[string]bool)
		for _, q := range team.Questions {
			set := make(map[string]bool, len(q.Answers))
			for _, a := range q.Answers {
				set[a.Text] = true
			}
			questions[q.QuestionText] = set
		}
		answers[team.TeamName] = questions
	}

	clean := &models.SummaryResponse{
		Recommendations:      []models.TeamRecommendations{},
		EngagementCommentary: []models.EngagementCommentary{},
	}

	for _, team := range resp.Recommendations {
		questions, ok := answers[team.TeamName]
		if !ok {
			continue
		}
		cleanTeam := models.TeamRecommendations{TeamName: team.TeamName, Questions: []models.QuestionRecommendations{}}
		for _, q := range team.Questions {
			known, ok := questions[q.QuestionText]
			if !ok {
				continue
			}
			cleanQ := models.QuestionRecommendations{QuestionText: q.QuestionText, Items: []models.Recommendation{}}
			for _, item := range q.Items {
				if len(cleanQ.Items) == MaxRecommendationsPerQuestion {
					break
				}
				quotes := make([]string, 0, MaxQuotesPerRecommendation)
				for _, quote := range item.Quotes {
					if len(quotes) == MaxQuotesPerRecommendation {
						break
					}
					if known[quote] {
						quotes = append(quotes, quote)
					}
				}
				cleanQ.Items = append(cleanQ.Items, models.Recommendation{
					Title:       item.Title,
					Description: item.Description,
					Quotes:      quotes,
				})
			}
			cleanTeam.Questions = append(cleanTeam.Questions, cleanQ)
		}
		clean.Recommendations = append(clean.Recommendations, cleanTeam)
	}

	engagedTeams := make(map[string]bool, len(req.Engagement))
	for _, record := range req.Engagement {
		engagedTeams[record.TeamName] = true
	}
	for _, commentary := range resp.EngagementCommentary {
		if engagedTeams[commentary.TeamName] || answers[commentary.TeamName] != nil {
			clean.EngagementCommentary = append(clean.EngagementCommentary, commentary)
		}
	}

	return clean
}
