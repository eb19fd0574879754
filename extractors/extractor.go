package extractors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/transform"
	"github.com/xuri/excelize/v2"
)

// ErrMissingColumns is returned when the header lacks the team or question column
var ErrMissingColumns = errors.New("required columns missing")

// rowField identifies the RawRow field a column is mapped to
type rowField int

const (
	fieldTeam rowField = iota
	fieldQuestion
	fieldValue
	fieldFreeText
	fieldArea
	fieldRowKind
	fieldCategory
	fieldTheme
)

// columnAliases are matched against normalized header names. The order
// matters: "question category" must map to the category, not the question.
var columnAliases = []struct {
	field   rowField
	aliases []string
}{
	{fieldCategory, []string{"question category", "category", "kategorie"}},
	{fieldTheme, []string{"theme", "tema"}},
	{fieldRowKind, []string{"row kind", "row type", "type", "typ", "kind"}},
	{fieldFreeText, []string{"free text", "freetext", "answer", "comment", "odpoved", "komentar"}},
	{fieldValue, []string{"value", "score", "hodnota", "average", "mean", "prumer"}},
	{fieldArea, []string{"area", "oblast", "section"}},
	{fieldTeam, []string{"team", "tym", "department", "oddeleni", "group"}},
	{fieldQuestion, []string{"question", "otazka", "item", "polozka"}},
}

// MapColumns maps header cells to row fields. The first column matching a field wins.
func MapColumns(header []string) map[rowField]int {
	mapping := make(map[rowField]int)
	for idx, cell := range header {
		name := transform.NormalizeText(cell)
		if name == "" {
			continue
		}
		for _, candidate := range columnAliases {
			if _, taken := mapping[candidate.field]; taken {
				continue
			}
			if matchesAlias(name, candidate.aliases) {
				mapping[candidate.field] = idx
				break
			}
		}
	}
	return mapping
}

func matchesAlias(name string, aliases []string) bool {
	for _, alias := range aliases {
		if name == alias || strings.Contains(name, alias) {
			return true
		}
	}
	return false
}

// ExtractRows reads the first sheet of an xlsx workbook into raw rows
func ExtractRows(r io.Reader) ([]models.RawRow, error) {
	return ExtractSheetRows(r, "")
}

// ExtractSheetRows reads the named sheet (first sheet when empty) into raw rows.
// The first non-empty row is the header; fully empty rows are skipped.
func ExtractSheetRows(r io.Reader, sheet string) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return RowsFromCells(cells)
}

// RowsFromCells converts a cell grid (header first) into raw rows
func RowsFromCells(cells [][]string) ([]models.RawRow, error) {
	headerIdx := -1
	for i, row := range cells {
		if !isEmptyRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return []models.RawRow{}, nil
	}

	mapping := MapColumns(cells[headerIdx])
	var missing []string
	if _, ok := mapping[fieldTeam]; !ok {
		missing = append(missing, "team")
	}
	if _, ok := mapping[fieldQuestion]; !ok {
		missing = append(missing, "question")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	rows := make([]models.RawRow, 0, len(cells)-headerIdx-1)
	for _, cellRow := range cells[headerIdx+1:] {
		if isEmptyRow(cellRow) {
			continue
		}
		get := func(field rowField) string {
			idx, ok := mapping[field]
			if !ok || idx >= len(cellRow) {
				return ""
			}
			return strings.TrimSpace(cellRow[idx])
		}
		rows = append(rows, models.RawRow{
			Team:             get(fieldTeam),
			Question:         get(fieldQuestion),
			Value:            get(fieldValue),
			FreeText:         get(fieldFreeText),
			Area:             get(fieldArea),
			RowKind:          get(fieldRowKind),
			QuestionCategory: get(fieldCategory),
			Theme:            get(fieldTheme),
		})
	}
	return rows, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// LoadJSONRows decodes a JSON array of raw rows
func LoadJSONRows(r io.Reader) ([]models.RawRow, error) {
	var rows []models.RawRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	return rows, nil
}
