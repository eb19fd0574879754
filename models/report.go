package models

// Question types of scored statements
const (
	QuestionTypeSpecific     = "Specific"
	QuestionTypeCrossCutting = "Cross-cutting"
)

// EngagementRecord holds participation figures of one team
type EngagementRecord struct {
	TeamName      string `json:"teamName"`
	ResponseCount int    `json:"responseCount"`
	SentCount     *int   `json:"sentCount,omitempty"`
}

// CompanyTotals holds company-wide participation figures taken from the
// aggregate rows of the export.
type CompanyTotals struct {
	TotalSent     int    `json:"totalSent"`
	TotalReceived int    `json:"totalReceived"`
	SuccessRate   string `json:"successRate"` // e.g. "85.5%"
}

// Metric is one team's score for one question of an area.
// HasData is false for entries filled in for a missing observation;
// such entries carry Score 0 and must not be read as a real zero.
type Metric struct {
	Category     string  `json:"category"`
	Score        float64 `json:"score"`
	QuestionType string  `json:"questionType"`
	HasData      bool    `json:"hasData"`
}

// TeamMetrics lists the metrics of one team inside an area
type TeamMetrics struct {
	TeamName string   `json:"teamName"`
	Metrics  []Metric `json:"metrics"`
}

// AreaMetricMatrix is the team × question matrix of one area.
// Every team lists the same categories in the same order.
type AreaMetricMatrix struct {
	AreaID string        `json:"areaId"`
	Title  string        `json:"title"`
	Teams  []TeamMetrics `json:"teams"`
}

// ThemeStat is the frequency of one theme among the answers of a question
type ThemeStat struct {
	Theme      string  `json:"theme"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ThemeSummary is the result of theme statistics for one answer set
type ThemeSummary struct {
	Stats     []ThemeStat `json:"stats"`
	HasThemes bool        `json:"hasThemes"`
}

// OpenQuestion collects the free-text answers of one team to one question.
// AnswerThemes runs parallel to Answers and is only set when at least one
// answer carries a theme label.
type OpenQuestion struct {
	QuestionText string      `json:"questionText"`
	Answers      []string    `json:"answers"`
	AnswerThemes []string    `json:"answerThemes,omitempty"`
	ThemeStats   []ThemeStat `json:"themeStats"`
}

// OpenQuestionGroup groups the open questions of one team
type OpenQuestionGroup struct {
	TeamName  string         `json:"teamName"`
	Questions []OpenQuestion `json:"questions"`
}

// ReportMetadata is free-form information about the analysis run
type ReportMetadata struct {
	ReportDate  string  `json:"reportDate,omitempty"`
	ScaleMax    float64 `json:"scaleMax,omitempty"`
	GeneratedAt string  `json:"generatedAt,omitempty"`
	SourceName  string  `json:"sourceName,omitempty"`
}

// CanonicalReport is the aggregated result of one analysis run.
// It is only changed after aggregation by merging in the summarization
// response (Recommendations, EngagementCommentary).
type CanonicalReport struct {
	ID                   string                 `json:"id"`
	Metadata             ReportMetadata         `json:"metadata"`
	Engagement           []EngagementRecord     `json:"engagement"`
	Totals               CompanyTotals          `json:"totals"`
	Areas                []AreaMetricMatrix     `json:"areas"`
	OpenQuestions        []OpenQuestionGroup    `json:"openQuestions"`
	Recommendations      []TeamRecommendations  `json:"recommendations"`
	EngagementCommentary []EngagementCommentary `json:"engagementCommentary"`
}

// HasOpenQuestions reports whether any team has at least one open question
func (r *CanonicalReport) HasOpenQuestions() bool {
	for _, group := range r.OpenQuestions {
		if len(group.Questions) > 0 {
			return true
		}
	}
	return false
}

// Area returns the matrix with the given title, or nil
func (r *CanonicalReport) Area(title string) *AreaMetricMatrix {
	for i := range r.Areas {
		if r.Areas[i].Title == title {
			return &r.Areas[i]
		}
	}
	return nil
}
