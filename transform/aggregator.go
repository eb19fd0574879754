package transform

import (
	"math"
	"strconv"

	"github.com/LilVoxy/survey_report/models"
	"github.com/google/uuid"
)

// areaAccumulator collects the scores of one area while rows are folded in
type areaAccumulator struct {
	title         string
	categories    []string
	categoryTypes map[string]string
	scores        map[string]map[string]float64 // team -> category -> score
}

// questionAccumulator collects the answers of one team to one question
type questionAccumulator struct {
	text    string
	entries []models.AnswerEntry
}

// teamAnswersAccumulator keeps the open questions of one team in first-seen order
type teamAnswersAccumulator struct {
	team      string
	questions []*questionAccumulator
	index     map[string]*questionAccumulator
}

// accumulator is the fold state of one aggregation run
type accumulator struct {
	engagement      []models.EngagementRecord
	engagementIndex map[string]int

	totals      models.CompanyTotals
	rateWasSet  bool
	metricTeams []string
	teamSeen    map[string]bool

	areas     []*areaAccumulator
	areaIndex map[string]*areaAccumulator

	openTeams []*teamAnswersAccumulator
	openIndex map[string]*teamAnswersAccumulator

	stats AggregationStats
}

func newAccumulator() *accumulator {
	return &accumulator{
		engagementIndex: make(map[string]int),
		teamSeen:        make(map[string]bool),
		areaIndex:       make(map[string]*areaAccumulator),
		openIndex:       make(map[string]*teamAnswersAccumulator),
	}
}

// AggregationStats counts how the rows of one run were routed
type AggregationStats struct {
	Rows        int
	Engagement  int
	OpenAnswers int
	Metrics     int
	Dropped     int
}

// Aggregate folds the rows into a CanonicalReport. Malformed rows are dropped
// and never abort the run; an empty input yields an empty report.
func Aggregate(rows []models.RawRow, meta models.ReportMetadata) *models.CanonicalReport {
	report, _ := AggregateWithStats(rows, meta)
	return report
}

// AggregateWithStats is Aggregate that also reports the routing counts
func AggregateWithStats(rows []models.RawRow, meta models.ReportMetadata) (*models.CanonicalReport, AggregationStats) {
	return aggregate(rows, meta, nil)
}

// aggregate runs the fold; onDropped, when set, sees every dropped row with its index
func aggregate(rows []models.RawRow, meta models.ReportMetadata, onDropped func(int, Classification)) (*models.CanonicalReport, AggregationStats) {
	acc := newAccumulator()
	for i, row := range rows {
		c := ClassifyRow(row)
		if c.Kind == KindDropped && onDropped != nil {
			onDropped(i, c)
		}
		acc.add(c)
	}
	acc.stats.Rows = len(rows)
	return acc.report(meta), acc.stats
}

func (a *accumulator) add(c Classification) {
	switch c.Kind {
	case KindEngagement:
		a.stats.Engagement++
		a.addEngagement(c)
	case KindOpenAnswer:
		a.stats.OpenAnswers++
		a.addAnswer(c)
	case KindScoredMetric:
		a.stats.Metrics++
		a.addMetric(c)
	default:
		a.stats.Dropped++
	}
}

func (a *accumulator) addEngagement(c Classification) {
	count := int(math.Round(c.Value))

	switch c.Target {
	case TargetTotalSent:
		a.totals.TotalSent = count
	case TargetTotalReceived:
		a.totals.TotalReceived = count
	case TargetSuccessRate:
		a.totals.SuccessRate = formatPercent(c.Value)
		a.rateWasSet = true
	case TargetTeamResponses, TargetTeamSent:
		record := a.engagementRecord(c.Row.Team)
		// Duplicate export rows overwrite, they are not summed
		if c.Target == TargetTeamResponses {
			record.ResponseCount = count
		} else {
			sent := count
			record.SentCount = &sent
		}
	}
}

func (a *accumulator) engagementRecord(team string) *models.EngagementRecord {
	if i, ok := a.engagementIndex[team]; ok {
		return &a.engagement[i]
	}
	a.engagementIndex[team] = len(a.engagement)
	a.engagement = append(a.engagement, models.EngagementRecord{TeamName: team})
	return &a.engagement[len(a.engagement)-1]
}

func (a *accumulator) addAnswer(c Classification) {
	team, ok := a.openIndex[c.Row.Team]
	if !ok {
		team = &teamAnswersAccumulator{team: c.Row.Team, index: make(map[string]*questionAccumulator)}
		a.openIndex[c.Row.Team] = team
		a.openTeams = append(a.openTeams, team)
	}

	question, ok := team.index[c.Row.Question]
	if !ok {
		question = &questionAccumulator{text: c.Row.Question}
		team.index[c.Row.Question] = question
		team.questions = append(team.questions, question)
	}

	question.entries = append(question.entries, models.AnswerEntry{
		Text:  c.Row.FreeText,
		Theme: c.Row.Theme,
	})
}

func (a *accumulator) addMetric(c Classification) {
	team := c.Row.Team
	if !a.teamSeen[team] {
		a.teamSeen[team] = true
		a.metricTeams = append(a.metricTeams, team)
	}

	title := c.Row.EffectiveArea()
	area, ok := a.areaIndex[title]
	if !ok {
		area = &areaAccumulator{
			title:         title,
			categoryTypes: make(map[string]string),
			scores:        make(map[string]map[string]float64),
		}
		a.areaIndex[title] = area
		a.areas = append(a.areas, area)
	}

	category := c.Row.Question
	if _, ok := area.categoryTypes[category]; !ok {
		area.categories = append(area.categories, category)
	}
	area.categoryTypes[category] = c.QuestionType

	if area.scores[team] == nil {
		area.scores[team] = make(map[string]float64)
	}
	area.scores[team][category] = c.Value
}

// report materializes the accumulator. Every area lists every metric team
// with every category of that area; missing cells are zero with HasData=false.
func (a *accumulator) report(meta models.ReportMetadata) *models.CanonicalReport {
	report := &models.CanonicalReport{
		ID:                   uuid.NewString(),
		Metadata:             meta,
		Engagement:           make([]models.EngagementRecord, 0, len(a.engagement)),
		Totals:               a.totals,
		Areas:                make([]models.AreaMetricMatrix, 0, len(a.areas)),
		OpenQuestions:        make([]models.OpenQuestionGroup, 0, len(a.openTeams)),
		Recommendations:      []models.TeamRecommendations{},
		EngagementCommentary: []models.EngagementCommentary{},
	}

	report.Engagement = append(report.Engagement, a.engagement...)

	if !a.rateWasSet && a.totals.TotalSent > 0 {
		report.Totals.SuccessRate = formatPercent(float64(a.totals.TotalReceived) * 100 / float64(a.totals.TotalSent))
	}

	usedIDs := make(map[string]int)
	for _, area := range a.areas {
		id := slugify(area.title)
		if n := usedIDs[id]; n > 0 {
			usedIDs[id] = n + 1
			id = id + "-" + strconv.Itoa(n+1)
		} else {
			usedIDs[id] = 1
		}

		matrix := models.AreaMetricMatrix{
			AreaID: id,
			Title:  area.title,
			Teams:  make([]models.TeamMetrics, 0, len(a.metricTeams)),
		}
		for _, team := range a.metricTeams {
			entry := models.TeamMetrics{
				TeamName: team,
				Metrics:  make([]models.Metric, 0, len(area.categories)),
			}
			for _, category := range area.categories {
				score, ok := area.scores[team][category]
				entry.Metrics = append(entry.Metrics, models.Metric{
					Category:     category,
					Score:        score,
					QuestionType: area.categoryTypes[category],
					HasData:      ok,
				})
			}
			matrix.Teams = append(matrix.Teams, entry)
		}
		report.Areas = append(report.Areas, matrix)
	}

	for _, team := range a.openTeams {
		group := models.OpenQuestionGroup{
			TeamName:  team.team,
			Questions: make([]models.OpenQuestion, 0, len(team.questions)),
		}
		for _, q := range team.questions {
			group.Questions = append(group.Questions, buildOpenQuestion(q))
		}
		report.OpenQuestions = append(report.OpenQuestions, group)
	}

	return report
}

func buildOpenQuestion(q *questionAccumulator) models.OpenQuestion {
	question := models.OpenQuestion{
		QuestionText: q.text,
		Answers:      make([]string, 0, len(q.entries)),
		ThemeStats:   CalculateThemeStats(q.entries).Stats,
	}

	hasTheme := false
	for _, entry := range q.entries {
		question.Answers = append(question.Answers, entry.Text)
		if entry.Theme != "" {
			hasTheme = true
		}
	}
	if hasTheme {
		question.AnswerThemes = make([]string, 0, len(q.entries))
		for _, entry := range q.entries {
			question.AnswerThemes = append(question.AnswerThemes, entry.Theme)
		}
	}
	return question
}
