package telemetry

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"TSDB/internal/application/service"
	"TSDB/internal/domain"
	json "github.com/json-iterator/go"
)

type TelemetryHandler struct {
	saveService   *service.SaveRecordService
	updateService *service.UpdateRecordService
	queryService  *service.QueryRecordsService
}

func NewTelemetryHandler(saveService *service.SaveRecordService,
	updateService *service.UpdateRecordService,
	queryService *service.QueryRecordsService) *TelemetryHandler {
	return &TelemetryHandler{
		saveService:   saveService,
		updateService: updateService,
		queryService:  queryService,
	}
}

func (h *TelemetryHandler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	result := h.saveService.Execute(service.SaveRecordCommand{Record: record})
	if result.Err != nil {
		writeError(w, result.Err)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Inserted")
}

func (h *TelemetryHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	result := h.updateService.Execute(service.UpdateRecordCommand{Record: record})
	if result.Err != nil {
		writeError(w, result.Err)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Updated")
}

func (h *TelemetryHandler) QueryById(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := service.QueryRecordsQuery{
		SeriesID: params.Get("timeseries_id"),
		Start:    params.Get("start_time"),
		End:      params.Get("end_time"),
	}
	for name, value := range map[string]string{
		"timeseries_id": query.SeriesID,
		"start_time":    query.Start,
		"end_time":      query.End,
	} {
		if value == "" {
			http.Error(w, fmt.Sprintf("missing query parameter %s", name), http.StatusBadRequest)
			return
		}
	}

	result := h.queryService.Execute(query)
	if result.Err != nil {
		writeError(w, result.Err)
		return
	}
	records := result.Records
	if records == nil {
		records = []domain.Record{}
	}
	output, err := json.Marshal(records)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(output)
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (domain.Record, bool) {
	var record domain.Record
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return record, false
	}
	if err := json.Unmarshal(body, &record); err != nil {
		http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
		return record, false
	}
	return record, true
}

// StatusFor maps engine outcomes onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	message := err.Error()
	switch {
	case errors.Is(err, domain.ErrCapacityExceeded):
		message = "Table Full"
	case errors.Is(err, domain.ErrNotFound):
		message = "Row not found"
	}
	http.Error(w, message, StatusFor(err))
}
