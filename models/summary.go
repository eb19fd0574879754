package models

// AnswerEntry is one free-text answer with its optional theme label
type AnswerEntry struct {
	Text  string `json:"text"`
	Theme string `json:"theme,omitempty"`
}

// QuestionAnswers is the raw answer list of one open question
type QuestionAnswers struct {
	QuestionText string        `json:"questionText"`
	Answers      []AnswerEntry `json:"answers"`
}

// TeamAnswers groups the open questions of one team for summarization
type TeamAnswers struct {
	TeamName  string            `json:"teamName"`
	Questions []QuestionAnswers `json:"questions"`
}

// SummaryRequest is sent to the summarization service
type SummaryRequest struct {
	Teams               []TeamAnswers      `json:"teams"`
	Engagement          []EngagementRecord `json:"engagement"`
	CompanyResponseRate string             `json:"companyResponseRate"`
}

// Recommendation is one suggested action derived from the answers.
// Quotes are literal answers of the question, never invented text.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Quotes      []string `json:"quotes"`
}

// QuestionRecommendations holds the recommendations for one question
type QuestionRecommendations struct {
	QuestionText string           `json:"questionText"`
	Items        []Recommendation `json:"items"`
}

// TeamRecommendations holds the recommendations for one team
type TeamRecommendations struct {
	TeamName  string                    `json:"teamName"`
	Questions []QuestionRecommendations `json:"questions"`
}

// EngagementCommentary is the summarization service's comment on a team's participation
type EngagementCommentary struct {
	TeamName       string `json:"teamName"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

// SummaryResponse is returned by the summarization service
type SummaryResponse struct {
	Recommendations      []TeamRecommendations  `json:"recommendations"`
	EngagementCommentary []EngagementCommentary `json:"engagement"`
}
