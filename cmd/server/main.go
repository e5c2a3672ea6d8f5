package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekklesia-dev/ekklesia-sdk/modules"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/application"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/configuration"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	publisher := eventbus.NewEventPublisher(logger)
	app := application.New(pool, publisher)
	for _, module := range modules.Load() {
		if err := module.Register(app); err != nil {
			logger.WithError(err).Fatalf("failed to register module %s", module.Name())
		}
		logger.WithField("module", module.Name()).Info("module registered")
	}

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), time.Minute)
	defer migrateCancel()
	if err := app.Migrations().Apply(migrateCtx, pool); err != nil {
		logger.WithError(err).Fatal("failed to apply migrations")
	}
	logger.Info("schema up to date")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	logger.Info("ready")
	<-stop
	logger.Info("shutting down")
}
