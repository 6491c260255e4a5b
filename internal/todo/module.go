package todo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gotask/internal/pkg/pkghash"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgmetrics"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gotask/internal/pkg/pkgtoken"
	"github.com/shandysiswandi/gotask/internal/pkg/pkguid"
	"github.com/shandysiswandi/gotask/internal/todo/event"
	"github.com/shandysiswandi/gotask/internal/todo/inbound"
	"github.com/shandysiswandi/gotask/internal/todo/store"
	"github.com/shandysiswandi/gotask/internal/todo/usecase"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrPostgresRequired = errors.New("todo: storage driver postgres needs a postgres pool")
	ErrUnknownDriver    = errors.New("todo: unknown storage driver")
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	EventID   pkguid.NumberID
	Metrics   *pkgmetrics.Prom
	Postgres  *pgxpool.Pool
	Kafka     *kgo.Client
}

// New wires the todo module and registers its endpoints. The returned func
// stops the event consumer.
func New(dep Dependency) (func(context.Context) error, error) {
	storage, err := newStore(dep)
	if err != nil {
		return nil, err
	}

	tokens, err := pkgtoken.NewJWT(
		dep.Config.GetBinary("auth.jwt.secret"),
		dep.Config.GetString("auth.jwt.issuer"),
		dep.Config.GetDuration("auth.jwt.ttl"),
	)
	if err != nil {
		return nil, err
	}

	limiter := pkgrouter.NewRateLimiter(
		dep.Config.GetFloat("auth.ratelimit.rps"),
		int(dep.Config.GetInt("auth.ratelimit.burst")),
	)
	if err := limiter.TrustProxies(dep.Config.GetArray("auth.ratelimit.trusted_proxies")); err != nil {
		return nil, err
	}

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	var recorder event.Recorder
	if dep.Metrics != nil {
		recorder = dep.Metrics
	}

	bus := event.NewBus(int(dep.Config.GetInt("event.buffer")), recorder)

	var handler event.Handler = event.LogHandler{}
	if dep.Kafka != nil {
		handler = event.NewKafkaPublisher(dep.Kafka, dep.Config.GetString("kafka.topic"))
	}

	consumer := event.NewConsumer(bus, handler, recorder, event.ConsumerConfig{
		Workers:     int(dep.Config.GetInt("event.workers")),
		MaxRetries:  int(dep.Config.GetInt("event.max_retries")),
		BaseBackoff: dep.Config.GetDuration("event.base_backoff"),
	})
	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Store:   storage,
		Events:  bus,
		Runner:  dep.Goroutine,
		ID:      dep.ID,
		EventID: dep.EventID,
		Hasher:  pkghash.NewBcrypt(int(dep.Config.GetInt("auth.bcrypt.cost"))),
		Tokens:  tokens,
		RootCtx: dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, limiter)

	return consumer.Stop, nil
}

func newStore(dep Dependency) (usecase.Store, error) {
	switch driver := dep.Config.GetString("storage.driver"); driver {
	case "", "memory":
		slog.Info("todo storage", "driver", "memory")
		return store.NewInMemoryStore(), nil
	case "postgres":
		if dep.Postgres == nil {
			return nil, ErrPostgresRequired
		}
		pg := store.NewPostgresStore(dep.Postgres)
		if dep.Config.GetBool("postgres.migrate") {
			if err := pg.Migrate(dep.Context); err != nil {
				return nil, err
			}
		}
		slog.Info("todo storage", "driver", "postgres")
		return pg, nil
	default:
		slog.Error("todo storage", "driver", driver, "error", ErrUnknownDriver)
		return nil, ErrUnknownDriver
	}
}
