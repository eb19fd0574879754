package models

// Default values for optional RawRow columns
const (
	DefaultArea             = "Unclassified"
	DefaultQuestionCategory = "Cross-cutting"
)

// RawRow is one record of the survey export, as decoded from the spreadsheet.
// Value keeps the raw cell text; numeric parsing happens during classification.
type RawRow struct {
	Team             string `json:"team"`
	Question         string `json:"question"`
	Value            string `json:"value,omitempty"`
	FreeText         string `json:"freeText,omitempty"`
	Area             string `json:"area,omitempty"`
	RowKind          string `json:"rowKind,omitempty"`
	QuestionCategory string `json:"questionCategory,omitempty"`
	Theme            string `json:"theme,omitempty"`
}

// EffectiveArea returns the area, or DefaultArea when the column is empty.
func (r RawRow) EffectiveArea() string {
	if r.Area == "" {
		return DefaultArea
	}
	return r.Area
}

// EffectiveCategory returns the question category, or DefaultQuestionCategory.
func (r RawRow) EffectiveCategory() string {
	if r.QuestionCategory == "" {
		return DefaultQuestionCategory
	}
	return r.QuestionCategory
}
