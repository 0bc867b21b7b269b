package web

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"AirlineSafety/src/charts"
	"AirlineSafety/src/config"
	"AirlineSafety/src/model"
	"AirlineSafety/src/processor"
	"AirlineSafety/src/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestServer(t *testing.T) (*Server, *storage.Logger) {
	t.Helper()
	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "app.log"))
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })

	ds := processor.Build([]model.AirlineRecord{
		{Airline: "Aer Lingus", AvailSeatKmPerWeek: 320906734, Incidents: [2]int{2, 0}},
		{Airline: "Aeroflot*", AvailSeatKmPerWeek: 1197672318,
			Incidents: [2]int{76, 6}, FatalAccidents: [2]int{14, 1}, Fatalities: [2]int{128, 88}},
		{Airline: "Ghost Air", Incidents: [2]int{3, 0}, Fatalities: [2]int{0, 4}},
	})
	dcfg := &config.DataConfig{
		Columns: map[string]string{"safety_score": "score"},
		Colors:  map[string]string{},
	}
	return NewServer(ds, logger, Options{DataConfig: dcfg}), logger
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestWideEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/wide")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Aer Lingus", rows[0]["airline"])
	assert.Nil(t, rows[2]["safety_score"])
	assert.Equal(t, float64(0), rows[2]["safety_rank"])
}

func TestLongEndpointFilters(t *testing.T) {
	s, _ := newTestServer(t)

	var all []model.TidyMetricRow
	rec := get(t, s, "/api/long")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 18)

	q := url.Values{}
	q.Add("airline", "Aer Lingus")
	q.Add("airline", "Aeroflot*")
	q.Add("period", "1985-1999")
	q.Add("metric_type", "incidents")

	var filtered []model.TidyMetricRow
	rec = get(t, s, "/api/long?"+q.Encode())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered, 2)
	assert.Equal(t, 2, filtered[0].Value)
	assert.Equal(t, 76, filtered[1].Value)

	rec = get(t, s, "/api/long?risk_category=Nope")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSummaryAndFilters(t *testing.T) {
	s, _ := newTestServer(t)

	var summary model.SummaryMetrics
	require.NoError(t, json.Unmarshal(get(t, s, "/api/summary").Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalAirlines)
	assert.Equal(t, 2+76+6+3, summary.TotalIncidents)
	assert.Equal(t, 128+88+4, summary.TotalFatalities)

	var opts model.FilterOptions
	require.NoError(t, json.Unmarshal(get(t, s, "/api/filters").Body.Bytes(), &opts))
	assert.Equal(t, []string{"Aer Lingus", "Aeroflot*", "Ghost Air"}, opts.Airlines)
	assert.Equal(t, []string{"1985-1999", "2000-2014"}, opts.Periods)
}

func TestExportEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "airline-safety.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"wide", "long"}, f.GetSheetList())

	header, err := f.GetRows("wide")
	require.NoError(t, err)
	assert.Contains(t, header[0], "Score")
	assert.Contains(t, header[0], "Incident Rate 1985 1999")

	long, err := f.GetRows("long")
	require.NoError(t, err)
	assert.Len(t, long, 1+18)
}

func TestExportEndpointFiltered(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/export.xlsx?airline=Aer+Lingus&metric_type=incidents")
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	wide, err := f.GetRows("wide")
	require.NoError(t, err)
	assert.Len(t, wide, 1+3)

	long, err := f.GetRows("long")
	require.NoError(t, err)
	require.Len(t, long, 1+2)
	assert.Equal(t, "Aer Lingus", long[1][0])
	assert.Equal(t, "Aer Lingus", long[2][0])
}

func TestChartEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	for _, name := range charts.Names {
		rec := get(t, s, "/charts/"+name)
		require.Equal(t, http.StatusOK, rec.Code, name)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Aeroflot*")
	}

	rec := get(t, s, "/charts/incident-trends?airline=Nobody")
	assert.Contains(t, rec.Body.String(), charts.NoDataTitle)

	rec = get(t, s, "/charts/pie")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardAndHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Airline Safety Dashboard")

	rec = get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	get(t, s, "/api/summary")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "airline_safety_loaded_airlines 3")
	assert.Contains(t, body, "airline_safety_long_table_rows 18")
	assert.Contains(t, body, `airline_safety_http_requests_total{code="200",route="/api/summary"} 1`)
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogsStream(t *testing.T) {
	s, logger := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/logs", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// 响应头返回后订阅已建立
	logger.Info("dataset loaded")

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Contains(t, line, "INFO: dataset loaded")
}

func TestParseFilter(t *testing.T) {
	q, err := url.ParseQuery("period=1985-1999&airline=&airline=+Aer+Lingus+&metric_type=incidents&metric_type=fatalities")
	require.NoError(t, err)

	f := ParseFilter(q)
	assert.Equal(t, []string{"1985-1999"}, f.Periods)
	assert.Equal(t, []string{"Aer Lingus"}, f.Airlines)
	assert.Equal(t, []string{"incidents", "fatalities"}, f.MetricTypes)
	assert.Empty(t, f.RiskCategories)

	assert.True(t, ParseFilter(url.Values{}).IsEmpty())
}
