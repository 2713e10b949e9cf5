package membershipservice

import (
	"log/slog"
	"time"

	httpadapter "clearwater/contexts/identity-access/membership-service/adapters/http"
	"clearwater/contexts/identity-access/membership-service/adapters/memory"
	"clearwater/contexts/identity-access/membership-service/application"
	"clearwater/contexts/identity-access/membership-service/ports"
)

// Module is the membership-service composition root exposed to runtime
// wiring. Gate is consumed directly by the HTTP platform for tier checks.
type Module struct {
	Handler   httpadapter.Handler
	Gate      application.Service
	Directory *memory.Directory
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Directory        ports.DirectoryClient
	Clock            ports.Clock
	GuildID          string
	StaffRoleID      string
	DispatchRoleID   string
	HRRoleID         string
	DirectoryTimeout time.Duration
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Directory:        deps.Directory,
		Clock:            deps.Clock,
		GuildID:          deps.GuildID,
		StaffRoleID:      deps.StaffRoleID,
		DispatchRoleID:   deps.DispatchRoleID,
		HRRoleID:         deps.HRRoleID,
		DirectoryTimeout: deps.DirectoryTimeout,
		Logger:           deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Gate: service,
	}
}

// NewInMemoryModule builds a development/testing module with an in-memory
// directory pre-wired to well-known role ids.
func NewInMemoryModule(logger *slog.Logger) Module {
	directory := memory.NewDirectory()
	module := NewModule(Dependencies{
		Directory:        directory,
		Clock:            directory,
		GuildID:          "guild-1",
		StaffRoleID:      "role-staff",
		DispatchRoleID:   "role-dispatch",
		HRRoleID:         "role-hr",
		DirectoryTimeout: time.Second,
		Logger:           logger,
	})
	module.Directory = directory
	return module
}
