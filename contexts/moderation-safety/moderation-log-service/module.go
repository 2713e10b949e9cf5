package moderationlogservice

import (
	"log/slog"

	httpadapter "clearwater/contexts/moderation-safety/moderation-log-service/adapters/http"
	"clearwater/contexts/moderation-safety/moderation-log-service/adapters/memory"
	"clearwater/contexts/moderation-safety/moderation-log-service/application"
	"clearwater/contexts/moderation-safety/moderation-log-service/ports"
)

// Module is the moderation-log-service composition root exposed to
// runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository    ports.Repository
	Clock         ports.Clock
	Publisher     ports.ActivityPublisher
	ActivityTopic string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:          deps.Repository,
		Clock:         deps.Clock,
		Publisher:     deps.Publisher,
		ActivityTopic: deps.ActivityTopic,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. Publisher may be nil when the side channel is not under test.
func NewInMemoryModule(publisher ports.ActivityPublisher, topic string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:    store,
		Clock:         store,
		Publisher:     publisher,
		ActivityTopic: topic,
		Logger:        logger,
	})
	module.Store = store
	return module
}
