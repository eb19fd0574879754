// routes/api_routes.go
package routes

import (
	"net/http"

	"github.com/LilVoxy/survey_report/config"
	"github.com/LilVoxy/survey_report/middleware"
	"github.com/LilVoxy/survey_report/transform"
	"github.com/LilVoxy/survey_report/utils"
	"github.com/LilVoxy/survey_report/websocket"
	"github.com/gorilla/mux"
)

// SetupRoutes registers all API and WebSocket routes
func SetupRoutes(router *mux.Router, cfg config.Config, transformer *transform.Transformer, logger *utils.Logger) {
	router.Use(middleware.CORSMiddleware)

	// Live analysis with progress events
	router.Handle("/ws/analyze", websocket.NewAnalyzeHandler(transformer, cfg.Report, logger))

	router.HandleFunc("/api/health", HealthHandler()).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/analyze", AnalyzeHandler(transformer, cfg, logger)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/share", ShareHandler(cfg.Report, logger)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/open", OpenHandler(logger)).Methods("POST", "OPTIONS")
}

// HealthHandler reports that the service is up
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
