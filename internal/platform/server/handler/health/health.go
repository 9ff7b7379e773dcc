package health

import (
	"net/http"

	"TSDB/internal/domain"
	json "github.com/json-iterator/go"
)

type HealthHandler struct {
	repository domain.RecordRepository
}

type HealthResponse struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

func NewHealthHandler(repository domain.RecordRepository) *HealthHandler {
	return &HealthHandler{
		repository: repository,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	output, _ := json.Marshal(HealthResponse{Status: "ok", Rows: h.repository.Count()})
	w.Header().Set("Content-Type", "application/json")
	w.Write(output)
}
