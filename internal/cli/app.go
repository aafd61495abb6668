package cli

import (
	"context"
	"errors"
	"fmt"

	"speseledger/internal/amqp"
	"speseledger/internal/backend"
	"speseledger/internal/config"
	"speseledger/internal/ledger"
	applog "speseledger/internal/log"
)

// App is one CLI session: the opened ledger store plus the resources to
// release when the command finishes.
type App struct {
	Config *config.Config
	Logger *applog.Logger
	Store  *ledger.Store

	closers []func() error
}

// Open builds the configured storage backend, loads the ledger from it and
// subscribes the AMQP publisher when AMQP_URL is set. A broker that cannot be
// reached is logged and skipped.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	ctx = applog.WithContext(ctx, logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backendCfg.Type, err)
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		Store:  ledger.Open(ctx, ledger.NewKVPersister(res.Backend, cfg.PersistIncome)),
	}
	app.closers = append(app.closers, res.Close)

	if cfg.AMQPEnabled() {
		pub, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, cfg.AMQPPublishTimeout)
		if err != nil {
			logger.WarnContext(ctx, "AMQP publisher unavailable, change notifications disabled",
				applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeNetwork).WithOperation(applog.OpStartup).ToSlice()...)
		} else {
			app.Store.Subscribe(pub.Observer())
			app.closers = append(app.closers, pub.Close)
		}
	}

	logger.DebugContext(ctx, "Ledger opened",
		applog.FieldBackend, backendCfg.Type.String(),
		applog.FieldCount, app.Store.Snapshot().Len())

	return app, nil
}

// Context attaches the session logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return applog.WithContext(ctx, a.Logger)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Warn("Session resources not released cleanly",
			applog.NewFields().WithError(err).WithOperation(applog.OpShutdown).ToSlice()...)
	} else {
		a.Logger.Debug("Session closed", applog.FieldOperation, applog.OpShutdown)
	}
	return err
}
