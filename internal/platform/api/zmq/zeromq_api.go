package zmq

import (
	"context"
	"errors"
	"fmt"

	"TSDB/internal/application/service"
	"TSDB/internal/domain"
	"TSDB/internal/platform/config"
	"github.com/go-zeromq/zmq4"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	QUERY  = "QUERY"
	SWEEP  = "SWEEP"
)

// ZmqApi answers JSON requests on a REP socket. Requests are handled one at
// a time, in arrival order.
type ZmqApi struct {
	config   config.Config
	services *Services
	logger   *zap.Logger
}

type Services struct {
	save   *service.SaveRecordService
	update *service.UpdateRecordService
	query  *service.QueryRecordsService
	sweep  *service.FaultSweepService
}

func NewZmqApi(save *service.SaveRecordService, update *service.UpdateRecordService,
	query *service.QueryRecordsService, sweep *service.FaultSweepService,
	conf config.Config, logger *zap.Logger) *ZmqApi {
	return &ZmqApi{
		config: conf,
		services: &Services{
			save:   save,
			update: update,
			query:  query,
			sweep:  sweep,
		},
		logger: logger.Named("zmq"),
	}
}

func (z *ZmqApi) Enabled() bool {
	return z.config.ZmqApiPort > 0
}

// Listen serves until ctx is cancelled. It returns immediately when the API
// is disabled.
func (z *ZmqApi) Listen(ctx context.Context) error {
	if !z.Enabled() {
		z.logger.Debug("zmq api disabled")
		return nil
	}
	socket := zmq4.NewRep(ctx)

	address := fmt.Sprintf("tcp://*:%d", z.config.ZmqApiPort)
	if err := socket.Listen(address); err != nil {
		socket.Close()
		return fmt.Errorf("zmq api listen on %s: %w", address, err)
	}
	z.logger.Info("zmq api listening", zap.String("address", address))

	go func() {
		<-ctx.Done()
		socket.Close()
	}()

	for {
		msg, err := socket.Recv()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, zmq4.ErrClosedConn) {
				z.logger.Info("zmq api shut down")
				return nil
			}
			z.logger.Warn("recv failed", zap.Error(err))
			continue
		}

		response := z.handle(msg.Bytes())
		if err := socket.Send(z.marshal(response)); err != nil {
			z.logger.Warn("send failed", zap.Error(err))
		}
	}
}

func (z *ZmqApi) handle(payload []byte) ApiResponse {
	var req ApiRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return ApiResponse{Success: false, Error: fmt.Sprintf("invalid request: %v", err)}
	}
	return z.processRequest(&req)
}

func (z *ZmqApi) processRequest(req *ApiRequest) ApiResponse {
	switch req.Action {
	case INSERT:
		if req.Record == nil {
			return ApiResponse{Error: "missing record"}
		}
		result := z.services.save.Execute(service.SaveRecordCommand{Record: *req.Record})
		return fromError(result.Err)

	case UPDATE:
		if req.Record == nil {
			return ApiResponse{Error: "missing record"}
		}
		result := z.services.update.Execute(service.UpdateRecordCommand{Record: *req.Record})
		return fromError(result.Err)

	case QUERY:
		result := z.services.query.Execute(service.QueryRecordsQuery{
			SeriesID: req.SeriesID,
			Start:    req.StartTime,
			End:      req.EndTime,
		})
		response := fromError(result.Err)
		response.Records = result.Records
		if response.Records == nil {
			response.Records = []domain.Record{}
		}
		return response

	case SWEEP:
		command := service.FaultSweepCommand{}
		if req.Sweep != nil {
			command.Options = *req.Sweep
		}
		result := z.services.sweep.Execute(command)
		response := fromError(result.Err)
		response.Flagged = result.Flagged
		response.RunId = result.RunId
		return response

	default:
		z.logger.Warn("unknown action", zap.String("action", req.Action))
		return ApiResponse{Error: fmt.Sprintf("unknown action %q", req.Action)}
	}
}

func fromError(err error) ApiResponse {
	if err != nil {
		return ApiResponse{Success: false, Error: err.Error()}
	}
	return ApiResponse{Success: true}
}

func (z *ZmqApi) marshal(response ApiResponse) zmq4.Msg {
	payload, err := json.Marshal(response)
	if err != nil {
		z.logger.Error("marshal response", zap.Error(err))
		payload = []byte(`{"success":false}`)
	}
	return zmq4.NewMsg(payload)
}
