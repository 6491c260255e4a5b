package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgkafka"
	"github.com/shandysiswandi/gotask/internal/pkg/pkglog"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgmetrics"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgpostgres"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotask/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	if level := cfg.GetString("log.level"); level != "" {
		pkglog.InitLogging(level)
	}

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()
	a.metrics = pkgmetrics.NewProm()

	snow, err := pkguid.NewSnowflake(a.config.GetInt("snowflake.node"))
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = snow
}

func (a *App) initResources() {
	needPostgres := a.config.GetString("storage.driver") == "postgres"
	if needPostgres {
		ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
		defer cancel()

		pool, err := pkgpostgres.NewPool(ctx, a.config.GetString("postgres.dsn"), pkgpostgres.Options{
			MaxConns:        int32(a.config.GetInt("postgres.max_conns")),
			MaxConnLifetime: a.config.GetDuration("postgres.max_conn_lifetime"),
			ConnectTimeout:  a.config.GetDuration("postgres.connect_timeout"),
		})
		if err != nil {
			slog.Error("failed to init postgres", "error", err)
			os.Exit(1)
		}
		a.postgres = pool
	}

	if a.config.GetBool("kafka.enabled") {
		ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
		defer cancel()

		client, err := pkgkafka.NewProducer(ctx, a.config.GetArray("kafka.brokers"), a.config.GetString("kafka.topic"), pkglog.ServiceName)
		if err != nil {
			slog.Error("failed to init kafka", "error", err)
			os.Exit(1)
		}
		a.kafka = client
	}
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid, a.metrics)
	a.router.Handle(http.MethodGet, "/metrics", a.metrics.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (a *App) initClosers() {
	if a.kafka != nil {
		a.resourceClosers = append(a.resourceClosers, closer{name: "Kafka", fn: func(context.Context) error {
			a.kafka.Close()
			return nil
		}})
	}
	if a.postgres != nil {
		a.resourceClosers = append(a.resourceClosers, closer{name: "Postgres", fn: func(context.Context) error {
			a.postgres.Close()
			return nil
		}})
	}
	a.resourceClosers = append(a.resourceClosers, closer{name: "Config", fn: func(context.Context) error {
		return a.config.Close()
	}})
}
