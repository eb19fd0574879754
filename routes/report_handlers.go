// routes/report_handlers.go
package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/LilVoxy/survey_report/config"
	"github.com/LilVoxy/survey_report/extractors"
	"github.com/LilVoxy/survey_report/models"
	"github.com/LilVoxy/survey_report/processor"
	"github.com/LilVoxy/survey_report/transform"
	"github.com/LilVoxy/survey_report/utils"
)

// maxJSONBody limits JSON request bodies of the share endpoints
const maxJSONBody = 16 << 20

// AnalyzeRequest is the JSON body of /api/analyze
type AnalyzeRequest struct {
	Rows       []models.RawRow `json:"rows"`
	ReportDate string          `json:"reportDate"`
	ScaleMax   float64         `json:"scaleMax"`
}

// ShareRequest is the body of /api/share. Report may be any JSON document.
type ShareRequest struct {
	Report   json.RawMessage `json:"report"`
	Password string          `json:"password"`
}

// ShareResponse carries the payload and a ready-made link
type ShareResponse struct {
	Payload string `json:"payload"`
	URL     string `json:"url"`
}

// OpenRequest is the body of /api/open. Payload may also be a full share URL.
type OpenRequest struct {
	Payload  string `json:"payload"`
	Password string `json:"password"`
}

// AnalyzeHandler turns an uploaded export (xlsx or JSON) into a CanonicalReport
func AnalyzeHandler(transformer *transform.Transformer, cfg config.Config, logger *utils.Logger) http.HandlerFunc {
	maxBytes := int64(cfg.Server.MaxUploadMB) << 20

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		var (
			rows []models.RawRow
			meta models.ReportMetadata
			err  error
		)

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			rows, meta, err = readUpload(r, maxBytes)
		} else {
			var req AnalyzeRequest
			if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
				rows = req.Rows
				meta = models.ReportMetadata{ReportDate: req.ReportDate, ScaleMax: req.ScaleMax}
			}
		}
		if err != nil {
			logger.Warn("⚠️ Rejected analysis request: %v", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if meta.ScaleMax <= 0 {
			meta.ScaleMax = cfg.Report.ScaleMax
		}
		meta.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

		report := transformer.Transform(r.Context(), rows, meta)
		logger.Info("✅ Report %s built from %d rows (%d areas, %d teams with open answers)",
			report.ID, len(rows), len(report.Areas), len(report.OpenQuestions))
		writeJSON(w, http.StatusOK, report)
	}
}

func readUpload(r *http.Request, maxBytes int64) ([]models.RawRow, models.ReportMetadata, error) {
	var meta models.ReportMetadata
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, meta, fmt.Errorf("invalid upload: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, meta, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	rows, err := readRows(file, header)
	if err != nil {
		return nil, meta, err
	}

	meta.SourceName = header.Filename
	meta.ReportDate = r.FormValue("reportDate")
	if scale := r.FormValue("scaleMax"); scale != "" {
		if v, err := strconv.ParseFloat(scale, 64); err == nil {
			meta.ScaleMax = v
		}
	}
	return rows, meta, nil
}

func readRows(file multipart.File, header *multipart.FileHeader) ([]models.RawRow, error) {
	if strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		return extractors.LoadJSONRows(file)
	}
	return extractors.ExtractRows(file)
}

// ShareHandler encrypts a report into a share payload
func ShareHandler(cfg config.ReportConfig, logger *utils.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ShareRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Report) == 0 || bytes.Equal(bytes.TrimSpace(req.Report), []byte("null")) {
			writeError(w, http.StatusBadRequest, "report is required")
			return
		}
		if utf8.RuneCountInString(req.Password) < processor.MinSharePasswordLength {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("password must be at least %d characters", processor.MinSharePasswordLength))
			return
		}

		payload, err := processor.EncodePayload(req.Report, req.Password)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, processor.ErrInvalidInput) {
				status = http.StatusBadRequest
			}
			logger.Error("❌ Failed to build share payload: %v", err)
			writeError(w, status, "could not create share link")
			return
		}

		logger.Info("✅ Share payload created (%d characters)", len(payload))
		writeJSON(w, http.StatusOK, ShareResponse{
			Payload: payload,
			URL:     processor.ShareURL(cfg.ShareBaseURL, payload),
		})
	}
}

// OpenHandler decrypts a share payload back into the report document
func OpenHandler(logger *utils.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		doc, err := processor.DecodePayloadRaw(processor.ParseShareFragment(req.Payload), req.Password)
		switch {
		case err == nil:
		case errors.Is(err, processor.ErrFormat):
			logger.Warn("⚠️ Malformed share payload: %v", err)
			writeError(w, http.StatusBadRequest, "invalid share link")
			return
		case errors.Is(err, processor.ErrDecryptionFailed):
			logger.Warn("⚠️ Share payload could not be decrypted")
			writeError(w, http.StatusUnauthorized, "wrong password or damaged link")
			return
		default:
			logger.Error("❌ Failed to open share payload: %v", err)
			writeError(w, http.StatusInternalServerError, "could not open share link")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(doc)
	}
}
