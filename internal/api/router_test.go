package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olukfidel/state-finance-dashboard/internal/dataset/inmemory"
	"github.com/olukfidel/state-finance-dashboard/internal/logger"
)

const fullCSV = `State,Year,Totals.Revenue,Totals.Expenditure,Details.Health.Health Total Expenditure,Details.Education.Education Total
CA,2020,100,80,30,40
CA,2021,120,90,35,45
TX,2020,95,70,28,38
`

const noTrendCSV = `State,Year,Totals.Revenue,Totals.Expenditure
CA,2020,100,80
`

func newTestRouter() http.Handler {
	log := logger.NewWithWriter(io.Discard)
	return NewRouter(inmemory.NewStore(), 16<<20, log)
}

func multipartBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, router http.Handler, filename string, data []byte) map[string]interface{} {
	t.Helper()
	body, contentType := multipartBody(t, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	router := newTestRouter()
	resp := upload(t, router, "finance.csv", []byte(fullCSV))

	assert.NotEmpty(t, resp["dataset_id"])
	assert.Equal(t, float64(3), resp["rows"])
	assert.Equal(t, []interface{}{"CA", "TX"}, resp["states"])
	assert.Equal(t, []interface{}{float64(2020), float64(2021)}, resp["years"])
	assert.Equal(t, float64(2021), resp["default_year"])
	assert.Equal(t, true, resp["has_trend_columns"])
}

func TestUpload_Memoized(t *testing.T) {
	router := newTestRouter()

	first := upload(t, router, "finance.csv", []byte(fullCSV))
	second := upload(t, router, "renamed.csv", []byte(fullCSV))

	assert.Equal(t, first["dataset_id"], second["dataset_id"])
}

func TestUpload_MalformedCSV(t *testing.T) {
	router := newTestRouter()

	body, contentType := multipartBody(t, "bad.csv", []byte("Region,Period\nWest,Q1\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/datasets", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading data")
}

func TestUpload_MissingFileField(t *testing.T) {
	router := newTestRouter()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilters(t *testing.T) {
	router := newTestRouter()
	resp := upload(t, router, "finance.csv", []byte(fullCSV))
	id := resp["dataset_id"].(string)

	rec := get(router, "/api/datasets/"+id+"/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var filters map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filters))
	assert.Equal(t, []interface{}{"CA", "TX"}, filters["states"])
	assert.Equal(t, float64(2021), filters["default_year"])
}

func TestFilters_UnknownDataset(t *testing.T) {
	router := newTestRouter()

	rec := get(router, "/api/datasets/deadbeefdeadbeef/filters")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChart_RevenueVsExpenditure(t *testing.T) {
	router := newTestRouter()
	resp := upload(t, router, "finance.csv", []byte(fullCSV))
	id := resp["dataset_id"].(string)

	rec := get(router, "/api/datasets/"+id+"/charts/revenue-vs-expenditure?state=CA&year=2020")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestChart_NoDataIsWarning(t *testing.T) {
	router := newTestRouter()
	resp := upload(t, router, "finance.csv", []byte(fullCSV))
	id := resp["dataset_id"].(string)

	// TX has no 2021 row.
	rec := get(router, "/api/datasets/"+id+"/charts/revenue-vs-expenditure?state=TX&year=2021")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["warning"], "TX")
	assert.Empty(t, body["error"])
}

func TestChart_SchemaMismatchBlocksOnlyThatView(t *testing.T) {
	router := newTestRouter()
	resp := upload(t, router, "finance.csv", []byte(noTrendCSV))
	id := resp["dataset_id"].(string)

	rec := get(router, "/api/datasets/"+id+"/charts/expenditure-trends?state=CA")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "required columns not found")

	// The other views stay usable.
	rec = get(router, "/api/datasets/"+id+"/charts/revenue-vs-expenditure?state=CA&year=2020")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestChart_RankingsDefaultsToLatestYear(t *testing.T) {
	router := newTestRouter()
	resp := upload(t, router, "finance.csv", []byte(fullCSV))
	id := resp["dataset_id"].(string)

	rec := get(router, "/api/datasets/"+id+"/charts/revenue-rankings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestChart_BadParams(t *testing.T) {
	router := newTestRouter()
	resp := upload(t, router, "finance.csv", []byte(fullCSV))
	id := resp["dataset_id"].(string)

	rec := get(router, "/api/datasets/"+id+"/charts/revenue-vs-expenditure?year=2020")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(router, "/api/datasets/"+id+"/charts/revenue-vs-expenditure?state=CA&year=notayear")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(router, "/api/datasets/"+id+"/charts/unknown-chart")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageAndHealth(t *testing.T) {
	router := newTestRouter()

	rec := get(router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dashboard")

	rec = get(router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter()

	rec := get(router, "/api/datasets")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/datasets/abc/filters", nil)
	del := httptest.NewRecorder()
	router.ServeHTTP(del, req)
	assert.Equal(t, http.StatusMethodNotAllowed, del.Code)
}
