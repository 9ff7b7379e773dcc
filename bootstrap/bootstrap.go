package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TSDB/internal/application/service"
	"TSDB/internal/domain"
	"TSDB/internal/platform/api/zmq"
	"TSDB/internal/platform/config"
	"TSDB/internal/platform/logger"
	"TSDB/internal/platform/prompt"
	"TSDB/internal/platform/repository"
	"TSDB/internal/platform/repository/pagetable"
	"TSDB/internal/platform/scheduler"
	"TSDB/internal/platform/server"
	"TSDB/internal/platform/server/handler/health"
	"TSDB/internal/platform/server/handler/sweep"
	"TSDB/internal/platform/server/handler/telemetry"
	"github.com/spf13/afero"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run() (bool, error) {
	container := dig.New()
	serviceConstructors := []interface{}{
		config.LoadConfig,
		logger.New,
		table,
		recordRepository,
		service.NewSaveRecordService,
		service.NewUpdateRecordService,
		service.NewQueryRecordsService,
		service.NewFaultSweepService,
		telemetry.NewTelemetryHandler,
		sweep.NewSweepHandler,
		health.NewHealthHandler,
		server.NewServer,
		zmq.NewZmqApi,
		scheduler.NewSweepScheduler,
		prompt.NewPrompt,
	}
	for _, service := range serviceConstructors {
		if err := container.Provide(service); err != nil {
			return false, err
		}
	}
	var runErr error
	err := container.Invoke(func(cfg config.Config,
		log *zap.Logger,
		t *pagetable.Table,
		s *server.Server,
		api *zmq.ZmqApi,
		sched *scheduler.SweepScheduler,
		p *prompt.Prompt) {
		defer log.Sync()
		defer func() {
			if err := t.Close(); err != nil {
				log.Error("closing table", zap.Error(err))
			}
		}()
		runErr = serve(cfg, log, s, api, sched, p)
	})
	if err != nil {
		return false, err
	}
	if runErr != nil {
		return false, runErr
	}
	return true, nil
}

func serve(cfg config.Config, log *zap.Logger, s *server.Server, api *zmq.ZmqApi,
	sched *scheduler.SweepScheduler, p *prompt.Prompt) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Run(ctx) })
	g.Go(func() error { return api.Listen(ctx) })
	g.Go(func() error { return sched.Run(ctx) })

	// The prompt blocks on stdin, so it stays outside the group.
	if cfg.PromptEnabled {
		go func() {
			if err := p.Run(os.Stdin, os.Stdout); err != nil {
				log.Error("prompt", zap.Error(err))
			}
			stop()
		}()
	}
	return g.Wait()
}

func table(cfg config.Config, log *zap.Logger) (*pagetable.Table, error) {
	return pagetable.Open(afero.NewOsFs(), cfg.DataFile,
		pagetable.WithSync(cfg.SyncOnFlush),
		pagetable.WithLogger(log.Named("pagetable")))
}

func recordRepository(t *pagetable.Table) domain.RecordRepository {
	return repository.NewPagedRecordRepository(t)
}
