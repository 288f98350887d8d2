package cli

import (
	"github.com/slotforge/availability/adapter/httpapi"
	"github.com/slotforge/availability/internal/availability/application/queries"
	"github.com/slotforge/availability/internal/availability/infrastructure/cache"
	"github.com/slotforge/availability/internal/availability/infrastructure/persistence"
)

// App holds the CLI's wired dependencies.
type App struct {
	CalculateSlotsHandler *queries.CalculateAvailableSlotsHandler
	DirtySet              cache.DirtyMarker
	HTTPServer            *httpapi.Server
	Syncer                *persistence.CalendarSyncer
}

// NewApp constructs an App over the given handlers.
func NewApp(calculateSlotsHandler *queries.CalculateAvailableSlotsHandler, dirtySet cache.DirtyMarker, httpServer *httpapi.Server, syncer *persistence.CalendarSyncer) *App {
	return &App{CalculateSlotsHandler: calculateSlotsHandler, DirtySet: dirtySet, HTTPServer: httpServer, Syncer: syncer}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
