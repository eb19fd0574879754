package transform

import (
	"sort"
	"strings"

	"github.com/LilVoxy/survey_report/models"
)

// CalculateThemeStats counts theme labels of the answers of one question.
// Labels are grouped by their NormalizeText form; the first spelling is shown.
// Answers without a theme are part of the total but of no bucket.
// The result is ordered by count descending, ties keep first-seen order.
func CalculateThemeStats(entries []models.AnswerEntry) models.ThemeSummary {
	total := len(entries)
	if total == 0 {
		return models.ThemeSummary{Stats: []models.ThemeStat{}, HasThemes: false}
	}

	index := make(map[string]int)
	stats := make([]models.ThemeStat, 0)
	for _, entry := range entries {
		label := strings.Join(strings.Fields(entry.Theme), " ")
		if label == "" {
			continue
		}
		key := NormalizeText(label)
		if i, ok := index[key]; ok {
			stats[i].Count++
			continue
		}
		index[key] = len(stats)
		stats = append(stats, models.ThemeStat{Theme: label, Count: 1})
	}

	for i := range stats {
		stats[i].Percentage = roundTo1(float64(stats[i].Count) * 100 / float64(total))
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	return models.ThemeSummary{Stats: stats, HasThemes: len(stats) > 0}
}
