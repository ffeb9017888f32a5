// Package api wires the HTTP surface: routes, handlers, and middleware.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/olukfidel/state-finance-dashboard/internal/api/handlers"
	"github.com/olukfidel/state-finance-dashboard/internal/api/middleware"
	"github.com/olukfidel/state-finance-dashboard/internal/dataset"
	"github.com/olukfidel/state-finance-dashboard/internal/web"
)

// NewRouter builds the full handler chain: page shell, dataset and chart
// endpoints, wrapped in the middleware onion.
func NewRouter(store dataset.Store, maxUploadBytes int64, log zerolog.Logger) http.Handler {
	datasetsHandler := handlers.NewDatasetsHandler(store, maxUploadBytes, log)
	chartsHandler := handlers.NewChartsHandler(store, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/datasets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			datasetsHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/datasets/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		// Paths: {id}/filters and {id}/charts/{chart}
		rest := strings.TrimPrefix(r.URL.Path, "/api/datasets/")
		parts := strings.Split(rest, "/")
		if parts[0] == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Dataset ID is required")
			return
		}
		datasetID := parts[0]

		switch {
		case len(parts) == 2 && parts[1] == "filters":
			datasetsHandler.Filters(w, r, datasetID)
		case len(parts) == 3 && parts[1] == "charts":
			switch parts[2] {
			case "revenue-vs-expenditure":
				chartsHandler.RevenueVsExpenditure(w, r, datasetID)
			case "expenditure-trends":
				chartsHandler.ExpenditureTrends(w, r, datasetID)
			case "revenue-rankings":
				chartsHandler.RevenueRankings(w, r, datasetID)
			default:
				middleware.WriteError(w, http.StatusNotFound, "Unknown chart")
			}
		default:
			middleware.WriteError(w, http.StatusNotFound, "Not found")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Page shell
	mux.Handle("/", web.Handler())

	// Apply middleware
	return middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(
				middleware.CORS(mux),
			),
		),
	)
}
