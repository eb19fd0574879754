package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LilVoxy/survey_report/config"
	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/processor"
	"github.com/LilVoxy/survey_report/transform"
	"github.com/LilVoxy/survey_report/utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestRouter() *mux.Router {
	cfg := config.DefaultConfig
	cfg.Report.ShareBaseURL = "https://reports.example.com/view"

	logger := utils.NewNopLogger()
	router := mux.NewRouter()
	SetupRoutes(router, cfg, transform.NewTransformer(nil, logger, 0), logger)
	return router
}

func do(t *testing.T, router http.Handler, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

var sampleRows = []models.RawRow{
	{Team: "Total", Question: "Questionnaires sent", Value: "20", Area: "Engagement"},
	{Team: "Total", Question: "Responses received", Value: "15", Area: "Engagement"},
	{Team: "Sales", Question: "Filled questionnaires", Value: "8", Area: "Engagement"},
	{Team: "Sales", Question: "I know my goals", Value: "4,5", RowKind: "score", Area: "Workplace"},
	{Team: "Sales", Question: "What would you improve?", FreeText: "More feedback", RowKind: "free"},
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodOptions, "/api/share", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestAnalyzeJSON(t *testing.T) {
	body := mustJSON(t, AnalyzeRequest{Rows: sampleRows, ReportDate: "2024-06"})
	rec := do(t, newTestRouter(), http.MethodPost, "/api/analyze", "application/json", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.CanonicalReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "2024-06", report.Metadata.ReportDate)
	assert.Equal(t, config.DefaultConfig.Report.ScaleMax, report.Metadata.ScaleMax)
	assert.NotEmpty(t, report.Metadata.GeneratedAt)
	assert.Equal(t, models.CompanyTotals{TotalSent: 20, TotalReceived: 15, SuccessRate: "75%"}, report.Totals)
	require.Len(t, report.Areas, 1)
	assert.Equal(t, 4.5, report.Areas[0].Teams[0].Metrics[0].Score)
	require.Len(t, report.OpenQuestions, 1)
	assert.Empty(t, report.Recommendations)
}

func TestAnalyzeEmptyRows(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/api/analyze", "application/json", []byte(`{"rows":[]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.CanonicalReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Empty(t, report.Areas)
	assert.Empty(t, report.Engagement)
}

func TestAnalyzeInvalidBody(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/api/analyze", "application/json", []byte(`{"rows":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestAnalyzeWorkbookUpload(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Team", "Question", "Value", "Row kind", "Area"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Ops", "Clear goals", "3,5", "score", "Workplace"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"Dev", "Clear goals", "4", "score", "Workplace"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	body, contentType := multipartBody(t, "export.xlsx", buf.Bytes(), map[string]string{"reportDate": "Q2", "scaleMax": "10"})
	rec := do(t, newTestRouter(), http.MethodPost, "/api/analyze", contentType, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.CanonicalReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "export.xlsx", report.Metadata.SourceName)
	assert.Equal(t, "Q2", report.Metadata.ReportDate)
	assert.Equal(t, 10.0, report.Metadata.ScaleMax)
	require.Len(t, report.Areas, 1)
	require.Len(t, report.Areas[0].Teams, 2)
	assert.Equal(t, "Ops", report.Areas[0].Teams[0].TeamName)
	assert.Equal(t, 3.5, report.Areas[0].Teams[0].Metrics[0].Score)
}

func TestAnalyzeJSONUpload(t *testing.T) {
	body, contentType := multipartBody(t, "rows.json", mustJSON(t, sampleRows), nil)
	rec := do(t, newTestRouter(), http.MethodPost, "/api/analyze", contentType, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.CanonicalReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "rows.json", report.Metadata.SourceName)
	assert.Len(t, report.Engagement, 1)
}

func TestAnalyzeUploadWithoutFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("reportDate", "Q2"))
	require.NoError(t, mw.Close())

	rec := do(t, newTestRouter(), http.MethodPost, "/api/analyze", mw.FormDataContentType(), buf.Bytes())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareAndOpen(t *testing.T) {
	router := newTestRouter()
	report := json.RawMessage(`{"id":"r1","totals":{"totalSent":20,"totalReceived":15,"successRate":"75%"}}`)

	rec := do(t, router, http.MethodPost, "/api/share", "application/json",
		mustJSON(t, ShareRequest{Report: report, Password: "s3cret!"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var shared ShareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shared))
	assert.True(t, strings.HasPrefix(shared.Payload, "v2."))
	assert.Equal(t, "https://reports.example.com/view#report="+shared.Payload, shared.URL)

	for _, payload := range []string{shared.Payload, shared.URL} {
		rec = do(t, router, http.MethodPost, "/api/open", "application/json",
			mustJSON(t, OpenRequest{Payload: payload, Password: "s3cret!"}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, string(report), rec.Body.String())
	}
}

func TestShareRejectsShortPassword(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/api/share", "application/json",
		mustJSON(t, ShareRequest{Report: json.RawMessage(`{}`), Password: "12345"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "at least 6")
}

func TestShareRequiresReport(t *testing.T) {
	for _, body := range []string{
		`{"password":"long-enough"}`,
		`{"report":null,"password":"long-enough"}`,
	} {
		rec := do(t, newTestRouter(), http.MethodPost, "/api/share", "application/json", []byte(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestOpenWrongPassword(t *testing.T) {
	payload, err := processor.EncodePayload(map[string]string{"id": "r1"}, "correct-pw")
	require.NoError(t, err)

	rec := do(t, newTestRouter(), http.MethodPost, "/api/open", "application/json",
		mustJSON(t, OpenRequest{Payload: payload, Password: "wrong-pw"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOpenMalformedPayload(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodPost, "/api/open", "application/json",
		mustJSON(t, OpenRequest{Payload: "not-a-payload", Password: "whatever"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
