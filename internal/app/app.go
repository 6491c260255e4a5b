package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gotask/internal/pkg/pkglog"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgmetrics"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotask/internal/pkg/pkguid"
	"github.com/twmb/franz-go/pkg/kgo"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager
	metrics   *pkgmetrics.Prom

	// resources
	postgres *pgxpool.Pool
	kafka    *kgo.Client

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	// closers run in order on Stop; modules first, then resources
	moduleClosers   []closer
	resourceClosers []closer
}

func New() *App {
	pkglog.InitLogging("info")

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initResources()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
