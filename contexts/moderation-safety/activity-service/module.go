package activityservice

import (
	"log/slog"

	httpadapter "clearwater/contexts/moderation-safety/activity-service/adapters/http"
	"clearwater/contexts/moderation-safety/activity-service/adapters/memory"
	"clearwater/contexts/moderation-safety/activity-service/application"
	"clearwater/contexts/moderation-safety/activity-service/application/workers"
	"clearwater/contexts/moderation-safety/activity-service/ports"
)

// Module is the activity-service composition root exposed to runtime
// wiring. Consumer is attached to the side channel by the platform.
type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.StaffActionConsumer
	Store    *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:        deps.Repository,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Consumer: workers.StaffActionConsumer{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
