package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"TSDB/internal/application/service"
	"TSDB/internal/domain"
	"TSDB/internal/platform/config"
	"TSDB/internal/platform/repository"
	"TSDB/internal/platform/repository/pagetable"
	"TSDB/internal/platform/server/handler/health"
	"TSDB/internal/platform/server/handler/sweep"
	"TSDB/internal/platform/server/handler/telemetry"
	json "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const series = "8f541ba4-c437-43ba-ba1d-5c946583fe54"

func createTestServer(t *testing.T) (*httptest.Server, *pagetable.Table) {
	table, err := pagetable.Open(afero.NewMemMapFs(), "ts.db", pagetable.WithSync(false))
	require.NoError(t, err)
	t.Cleanup(func() {
		table.Close()
	})

	cfg := config.Config{
		ServerHost: "127.0.0.1",
		ServerPort: 0,
		Sweep: domain.SweepOptions{
			SeriesID:    series,
			WindowStart: "2024-08-28T12:00:00Z",
			WindowEnd:   "2024-08-28T12:05:00Z",
			Threshold:   0.95,
		},
	}
	logger := zap.NewNop()
	repo := repository.NewPagedRecordRepository(table)
	srv := NewServer(cfg,
		telemetry.NewTelemetryHandler(
			service.NewSaveRecordService(repo, logger),
			service.NewUpdateRecordService(repo, logger),
			service.NewQueryRecordsService(repo)),
		sweep.NewSweepHandler(service.NewFaultSweepService(repo, cfg, logger)),
		health.NewHealthHandler(repo),
		logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, table
}

func postTelemetry(t *testing.T, ts *httptest.Server, method string, body string) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+"/telemetry", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(payload)
}

func telemetryBody(minute int, value float64) string {
	return fmt.Sprintf(`{"sensor_name":"Sa_FanSpeed","timestamp":"2024-08-28T12:%02d:00Z","value":%v,"fc1_flag":null,"timeseries_id":"%s"}`,
		minute, value, series)
}

func queryById(t *testing.T, ts *httptest.Server, seriesID, start, end string) []domain.Record {
	params := url.Values{}
	params.Set("timeseries_id", seriesID)
	params.Set("start_time", start)
	params.Set("end_time", end)
	resp, err := http.Get(ts.URL + "/query_by_id?" + params.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var records []domain.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	return records
}

func TestServer_InsertAndQuery(t *testing.T) {
	ts, _ := createTestServer(t)

	for i, v := range []float64{0.8, 0.9, 1.0} {
		resp, body := postTelemetry(t, ts, http.MethodPost, telemetryBody(i, v))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Inserted", body)
	}

	records := queryById(t, ts, series, "2024-08-28T12:00:00Z", "2024-08-28T12:03:00Z")
	require.Len(t, records, 3)
	assert.Equal(t, 0.8, records[0].Value)
	assert.Equal(t, "Sa_FanSpeed", records[0].SensorName)
	assert.False(t, records[0].HasFault())
}

func TestServer_QueryEmptyReturnsArray(t *testing.T) {
	ts, _ := createTestServer(t)

	resp, err := http.Get(ts.URL + "/query_by_id?timeseries_id=none&start_time=a&end_time=b")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))
}

func TestServer_QueryMissingParameter(t *testing.T) {
	ts, _ := createTestServer(t)

	resp, err := http.Get(ts.URL + "/query_by_id?timeseries_id=x&start_time=a")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_InsertInvalidBody(t *testing.T) {
	ts, _ := createTestServer(t)

	resp, _ := postTelemetry(t, ts, http.MethodPost, `{"sensor_name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = postTelemetry(t, ts, http.MethodPost, `{"sensor_name":"x","timestamp":"t","value":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_InsertWhenTableIsFull(t *testing.T) {
	ts, table := createTestServer(t)
	for i := 0; i < pagetable.MaxRows; i++ {
		require.NoError(t, table.Insert(domain.Record{Timestamp: "t", SeriesID: "s"}))
	}

	resp, body := postTelemetry(t, ts, http.MethodPost, telemetryBody(0, 1))
	assert.Equal(t, http.StatusInsufficientStorage, resp.StatusCode)
	assert.Contains(t, body, "Table Full")
}

func TestServer_Update(t *testing.T) {
	ts, _ := createTestServer(t)
	postTelemetry(t, ts, http.MethodPost, telemetryBody(0, 0.8))

	resp, body := postTelemetry(t, ts, http.MethodPut, telemetryBody(0, 0.5))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Updated", body)

	records := queryById(t, ts, series, "2024-08-28T12:00:00Z", "2024-08-28T12:00:00Z")
	require.Len(t, records, 1)
	assert.Equal(t, 0.5, records[0].Value)

	resp, _ = postTelemetry(t, ts, http.MethodPut, telemetryBody(7, 0.5))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Sweep(t *testing.T) {
	ts, _ := createTestServer(t)
	for i, v := range []float64{0.8, 0.9, 1.0} {
		postTelemetry(t, ts, http.MethodPost, telemetryBody(i, v))
	}

	resp, err := http.Post(ts.URL+"/sweep", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result sweep.SweepResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Flagged)
	assert.NotEmpty(t, result.RunId)

	faults := 0
	for _, r := range queryById(t, ts, series, "2024-08-28T12:00:00Z", "2024-08-28T12:03:00Z") {
		if r.FaultFlag == domain.FaultSentinel {
			faults++
		}
	}
	assert.Equal(t, 1, faults)
}

func TestServer_SweepWithPartialOptions(t *testing.T) {
	ts, _ := createTestServer(t)
	for i, v := range []float64{0.8, 0.9, 1.0} {
		postTelemetry(t, ts, http.MethodPost, telemetryBody(i, v))
	}

	resp, err := http.Post(ts.URL+"/sweep", "application/json", strings.NewReader(`{"threshold":0.85}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result sweep.SweepResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 2, result.Flagged)
}

func TestServer_SweepWithInvalidOptions(t *testing.T) {
	ts, _ := createTestServer(t)

	resp, err := http.Post(ts.URL+"/sweep", "application/json",
		strings.NewReader(`{"timeseries_id":"s","start_time":"z","end_time":"a","threshold":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Health(t *testing.T) {
	ts, _ := createTestServer(t)
	postTelemetry(t, ts, http.MethodPost, telemetryBody(0, 0.8))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var result health.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, 1, result.Rows)
}
