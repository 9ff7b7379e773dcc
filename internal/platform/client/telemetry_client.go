package client

import (
	"fmt"

	"TSDB/internal/domain"
	"github.com/go-resty/resty/v2"
)

const (
	telemetry_endpoint = "/telemetry"
	query_endpoint     = "/query_by_id"
	sweep_endpoint     = "/sweep"
	health_endpoint    = "/health"
)

type TelemetryClient struct {
	client    *resty.Client
	serverUrl string
}

type SweepResult struct {
	RunId   string `json:"run_id"`
	Flagged int    `json:"flagged"`
}

type Health struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

func NewTelemetryClient(serverUrl string) *TelemetryClient {
	return &TelemetryClient{
		client:    resty.New(),
		serverUrl: serverUrl,
	}
}

func (c *TelemetryClient) Insert(record domain.Record) error {
	resp, err := c.client.R().SetBody(&record).Post(c.serverUrl + telemetry_endpoint)
	return checkResponse(resp, err)
}

func (c *TelemetryClient) Update(record domain.Record) error {
	resp, err := c.client.R().SetBody(&record).Put(c.serverUrl + telemetry_endpoint)
	return checkResponse(resp, err)
}

func (c *TelemetryClient) Query(seriesID, start, end string) ([]domain.Record, error) {
	var records []domain.Record
	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"timeseries_id": seriesID,
			"start_time":    start,
			"end_time":      end,
		}).
		SetResult(&records).
		Get(c.serverUrl + query_endpoint)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return records, nil
}

// Sweep triggers a fault sweep; nil options use the server's configuration.
func (c *TelemetryClient) Sweep(options *domain.SweepOptions) (*SweepResult, error) {
	var result SweepResult
	req := c.client.R().SetResult(&result)
	if options != nil {
		req.SetBody(options)
	}
	resp, err := req.Post(c.serverUrl + sweep_endpoint)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *TelemetryClient) Health() (*Health, error) {
	var health Health
	resp, err := c.client.R().SetResult(&health).Get(c.serverUrl + health_endpoint)
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &health, nil
}

// StatusError carries a non-2xx reply of the server.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server replied %d: %s", e.StatusCode, e.Body)
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
