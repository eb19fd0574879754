package transform

import (
	"github.com/LilVoxy/survey_report/models"
)

// Kind is the aggregation branch a row is routed to
type Kind int

const (
	KindDropped Kind = iota
	KindEngagement
	KindOpenAnswer
	KindScoredMetric
)

func (k Kind) String() string {
	switch k {
	case KindEngagement:
		return "engagement"
	case KindOpenAnswer:
		return "open_answer"
	case KindScoredMetric:
		return "scored_metric"
	default:
		return "dropped"
	}
}

// EngagementTarget tells which participation figure an engagement row sets
type EngagementTarget int

const (
	TargetTeamResponses EngagementTarget = iota
	TargetTeamSent
	TargetTotalSent
	TargetTotalReceived
	TargetSuccessRate
)

// Classification is the result of ClassifyRow. Only the fields of the
// chosen Kind are meaningful.
type Classification struct {
	Kind Kind
	Row  models.RawRow

	// KindEngagement and KindScoredMetric
	Value float64

	// KindEngagement
	Target EngagementTarget

	// KindScoredMetric
	QuestionType string

	// KindDropped: why the row was not analyzable
	Reason string
}

// Keyword markers, all in normalized form (see NormalizeText)
var (
	participationMarkers = []string{"engagement", "participation", "respondent", "responded", "response rate", "zapojeni", "ucast"}
	aggregateTeams       = map[string]bool{
		"total":           true,
		"overall":         true,
		"company":         true,
		"company total":   true,
		"all teams":       true,
		"celkem":          true,
		"celkova hodnota": true,
	}
	sentMarkers     = []string{"sent", "invited", "osloven", "rozeslan"}
	rateMarkers     = []string{"return", "rate", "navratnost"}
	engagedMarkers  = []string{"structure", "filled", "engaged", "vyplnen", "zapojen"}
	freeTextMarkers = []string{"free", "open", "text", "otevren"}
	scoredMarkers   = []string{"score", "scale", "statement", "tvrzeni", "metric"}
	specificMarkers = []string{"specific", "specif"}
)

// IsAggregateTeam reports whether the team name is the synthetic total row of the export
func IsAggregateTeam(team string) bool {
	return aggregateTeams[NormalizeText(team)]
}

// ClassifyRow decides which aggregation branch a row belongs to.
// It never fails: rows that fit no branch come back as KindDropped.
func ClassifyRow(row models.RawRow) Classification {
	team := NormalizeText(row.Team)
	question := NormalizeText(row.Question)
	area := NormalizeText(row.Area)
	kind := NormalizeText(row.RowKind)
	isAggregate := aggregateTeams[team]
	isRealTeam := team != "" && !isAggregate

	value, hasValue := ParseLocaleNumber(row.Value)

	if containsAny(area, participationMarkers) || containsAny(question, participationMarkers) {
		return classifyParticipation(row, question, isAggregate, isRealTeam, value, hasValue)
	}

	if containsAny(kind, freeTextMarkers) {
		switch {
		case !isRealTeam:
			return dropped(row, "free-text row without a real team")
		case question == "":
			return dropped(row, "free-text row without a question")
		case NormalizeText(row.FreeText) == "":
			return dropped(row, "empty free-text answer")
		}
		return Classification{Kind: KindOpenAnswer, Row: row}
	}

	if containsAny(kind, scoredMarkers) {
		switch {
		case !hasValue:
			return dropped(row, "scored row without a numeric value")
		case !isRealTeam:
			return dropped(row, "scored row of the aggregate team")
		case question == "":
			return dropped(row, "scored row without a question")
		}
		return Classification{
			Kind:         KindScoredMetric,
			Row:          row,
			Value:        value,
			QuestionType: questionType(row.EffectiveCategory()),
		}
	}

	return dropped(row, "unknown row kind")
}

func classifyParticipation(row models.RawRow, question string, isAggregate, isRealTeam bool, value float64, hasValue bool) Classification {
	if !hasValue {
		return dropped(row, "participation row without a numeric value")
	}

	result := Classification{Kind: KindEngagement, Row: row, Value: value}

	switch {
	case isAggregate:
		switch {
		case containsAny(question, sentMarkers):
			result.Target = TargetTotalSent
		case containsAny(question, rateMarkers):
			result.Target = TargetSuccessRate
		default:
			result.Target = TargetTotalReceived
		}
		return result
	case isRealTeam:
		switch {
		case containsAny(question, engagedMarkers):
			result.Target = TargetTeamResponses
		case containsAny(question, sentMarkers):
			result.Target = TargetTeamSent
		default:
			return dropped(row, "participation row with an unknown figure")
		}
		return result
	}

	return dropped(row, "participation row without a team")
}

func questionType(category string) string {
	if containsAny(NormalizeText(category), specificMarkers) {
		return models.QuestionTypeSpecific
	}
	return models.QuestionTypeCrossCutting
}

func dropped(row models.RawRow, reason string) Classification {
	return Classification{Kind: KindDropped, Row: row, Reason: reason}
}
