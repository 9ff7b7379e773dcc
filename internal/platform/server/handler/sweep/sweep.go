package sweep

import (
	"io"
	"net/http"

	"TSDB/internal/application/service"
	"TSDB/internal/domain"
	"TSDB/internal/platform/server/handler/telemetry"
	json "github.com/json-iterator/go"
)

type SweepHandler struct {
	sweepService *service.FaultSweepService
}

type SweepResponse struct {
	RunId   string `json:"run_id"`
	Flagged int    `json:"flagged"`
}

func NewSweepHandler(sweepService *service.FaultSweepService) *SweepHandler {
	return &SweepHandler{
		sweepService: sweepService,
	}
}

// RunSweep runs one fault sweep. Fields missing from the body fall back to
// the configured options.
func (h *SweepHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	var options domain.SweepOptions
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &options); err != nil {
			http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	result := h.sweepService.Execute(service.FaultSweepCommand{Options: options})
	if result.Err != nil {
		http.Error(w, result.Err.Error(), telemetry.StatusFor(result.Err))
		return
	}
	output, _ := json.Marshal(SweepResponse{RunId: result.RunId, Flagged: result.Flagged})
	w.Header().Set("Content-Type", "application/json")
	w.Write(output)
}
