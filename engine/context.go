package engine

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/sceneforge/events"
)

// Context is the explicit root object created once at startup and passed to
// every system. There is no process-wide singleton; everything a system may
// touch hangs off the context it receives.
type Context struct {
	Storage *Storage
	Graph   *SceneGraph
	Grid    *SpatialHashGrid
	Bus     *events.Bus
	Params  SimParams
	Log     *zap.Logger

	// Frame counts completed update passes; advanced by the scheduler
	Frame int64
}

// NewContext builds the core object graph: event bus, storage publishing on
// it, scene graph and broadphase grid.
func NewContext(params SimParams, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	bus := events.NewBus()
	return &Context{
		Storage: NewStorage(bus),
		Graph:   NewSceneGraph(),
		Grid:    NewSpatialHashGrid(params.CellSize),
		Bus:     bus,
		Params:  params,
		Log:     log,
	}
}
