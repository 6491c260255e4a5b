package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gotask/internal/todo"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.todo.enabled") {
		stop, err := todo.New(todo.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			EventID:   a.snowflake,
			Metrics:   a.metrics,
			Postgres:  a.postgres,
			Kafka:     a.kafka,
		})
		if err != nil {
			slog.Error("failed to init module todo", "error", err)
			os.Exit(1)
		}
		if stop != nil {
			a.moduleClosers = append(a.moduleClosers, closer{name: "Todo", fn: stop})
		}
	}
}
