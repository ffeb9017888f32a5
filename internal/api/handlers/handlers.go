package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/olukfidel/state-finance-dashboard/internal/api/middleware"
	"github.com/olukfidel/state-finance-dashboard/internal/charts"
	"github.com/olukfidel/state-finance-dashboard/internal/dataset"
	"github.com/olukfidel/state-finance-dashboard/internal/filters"
	"github.com/olukfidel/state-finance-dashboard/internal/logger"
)

// DatasetsHandler handles dataset upload and filter resolution.
type DatasetsHandler struct {
	store          dataset.Store
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(store dataset.Store, maxUploadBytes int64, log zerolog.Logger) *DatasetsHandler {
	return &DatasetsHandler{
		store:          store,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// Upload handles POST /api/datasets. The file travels in the "file" multipart
// field. Identical content re-uploads hit the memoized table and skip parsing.
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "A \"file\" form field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	id := dataset.Fingerprint(data)
	if table, err := h.store.Get(ctx, id); err == nil {
		h.log.Debug().Str("dataset_id", id).Msg("Upload resolved from cache")
		h.writeSummary(w, id, table)
		return
	}

	table, err := dataset.Parse(header.Filename, data)
	if err != nil {
		h.log.Warn().Err(err).Str("filename", header.Filename).Msg("Upload failed to parse")
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error loading data: %v", err))
		return
	}

	if err := h.store.Save(ctx, id, table); err != nil {
		h.log.Error().Err(err).Str("dataset_id", id).Msg("Failed to store dataset")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store dataset")
		return
	}

	h.log.Info().
		Str("dataset_id", id).
		Str("filename", header.Filename).
		Int("rows", table.Len()).
		Msg("Dataset loaded")

	h.writeSummary(w, id, table)
}

// Filters handles GET /api/datasets/{id}/filters.
func (h *DatasetsHandler) Filters(w http.ResponseWriter, r *http.Request, datasetID string) {
	table, ok := h.table(w, r, datasetID)
	if !ok {
		return
	}
	h.writeSummary(w, datasetID, table)
}

func (h *DatasetsHandler) writeSummary(w http.ResponseWriter, id string, table *dataset.Table) {
	states := filters.States(table)
	if states == nil {
		states = []string{}
	}
	years := filters.Years(table)
	if years == nil {
		years = []int{}
	}
	defaultYear, _ := filters.DefaultYear(table)

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"dataset_id":        id,
		"rows":              table.Len(),
		"states":            states,
		"years":             years,
		"default_year":      defaultYear,
		"has_trend_columns": len(table.MissingColumns(dataset.ColHealth, dataset.ColEducation)) == 0,
	})
}

func (h *DatasetsHandler) table(w http.ResponseWriter, r *http.Request, datasetID string) (*dataset.Table, bool) {
	table, err := h.store.Get(r.Context(), datasetID)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Dataset not found. Upload a file first.")
		} else {
			h.log.Error().Err(err).Str("dataset_id", datasetID).Msg("Failed to load dataset")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dataset")
		}
		return nil, false
	}
	return table, true
}

// ChartsHandler serves the three chart views as rendered PNGs.
type ChartsHandler struct {
	store dataset.Store
	log   zerolog.Logger
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(store dataset.Store, log zerolog.Logger) *ChartsHandler {
	return &ChartsHandler{store: store, log: log}
}

// RevenueVsExpenditure handles
// GET /api/datasets/{id}/charts/revenue-vs-expenditure?state=..&year=..
func (h *ChartsHandler) RevenueVsExpenditure(w http.ResponseWriter, r *http.Request, datasetID string) {
	table, ok := h.table(w, r, datasetID)
	if !ok {
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		middleware.WriteError(w, http.StatusBadRequest, "A state query parameter is required")
		return
	}
	year, ok := h.year(w, r, table)
	if !ok {
		return
	}

	png, err := charts.RenderRevenueVsExpenditure(table, state, year)
	h.writeChart(w, r, png, err)
}

// ExpenditureTrends handles
// GET /api/datasets/{id}/charts/expenditure-trends?state=..
func (h *ChartsHandler) ExpenditureTrends(w http.ResponseWriter, r *http.Request, datasetID string) {
	table, ok := h.table(w, r, datasetID)
	if !ok {
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		middleware.WriteError(w, http.StatusBadRequest, "A state query parameter is required")
		return
	}

	png, err := charts.RenderExpenditureTrends(table, state)
	h.writeChart(w, r, png, err)
}

// RevenueRankings handles
// GET /api/datasets/{id}/charts/revenue-rankings?year=..
func (h *ChartsHandler) RevenueRankings(w http.ResponseWriter, r *http.Request, datasetID string) {
	table, ok := h.table(w, r, datasetID)
	if !ok {
		return
	}
	year, ok := h.year(w, r, table)
	if !ok {
		return
	}

	png, err := charts.RenderRevenueRankings(table, year)
	h.writeChart(w, r, png, err)
}

// year reads the year query parameter, falling back to the table's latest
// year when the parameter is absent.
func (h *ChartsHandler) year(w http.ResponseWriter, r *http.Request, table *dataset.Table) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		year, ok := filters.DefaultYear(table)
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "Dataset has no years to select")
			return 0, false
		}
		return year, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid year %q", raw))
		return 0, false
	}
	return year, true
}

// writeChart maps the chart error taxonomy onto the transport: empty results
// are warnings, schema mismatches block only this view, everything else is a
// render failure.
func (h *ChartsHandler) writeChart(w http.ResponseWriter, r *http.Request, png []byte, err error) {
	if err != nil {
		log := logger.FromContext(r.Context())
		var schemaErr *charts.SchemaError
		switch {
		case errors.Is(err, charts.ErrNoData):
			log.Debug().Str("path", r.URL.Path).Msg("Chart has no data for selection")
			middleware.WriteWarning(w, err.Error())
		case errors.As(err, &schemaErr):
			log.Warn().Strs("missing_columns", schemaErr.Missing).Str("path", r.URL.Path).Msg("Chart schema mismatch")
			middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Chart render failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to render chart")
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *ChartsHandler) table(w http.ResponseWriter, r *http.Request, datasetID string) (*dataset.Table, bool) {
	table, err := h.store.Get(r.Context(), datasetID)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Dataset not found. Upload a file first.")
		} else {
			h.log.Error().Err(err).Str("dataset_id", datasetID).Msg("Failed to load dataset")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dataset")
		}
		return nil, false
	}
	return table, true
}
