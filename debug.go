package fern

import "time"

// FrameStats holds per-frame counters and timings of one Update.
type FrameStats struct {
	Visited          int // entities visited by the reconciler
	RoutineCalls     int // update routines run
	DiffChanges      int // entries across all merged diffs
	Despawned        int
	NodesBuilt       int
	LayoutIterations int
	Primitives       int
	Events           int // typed events dispatched

	InputTime     time.Duration
	ReconcileTime time.Duration
	LayoutTime    time.Duration
	BuildTime     time.Duration
}

// Total returns the summed phase durations.
func (s FrameStats) Total() time.Duration {
	return s.InputTime + s.ReconcileTime + s.LayoutTime + s.BuildTime
}

// Stats returns the stats of the last Update.
func (c *Context) Stats() FrameStats {
	return c.lastStats
}

// debugLog reports frame stats in debug mode.
func (c *Context) debugLog(stats FrameStats) {
	if !c.config.Debug {
		return
	}
	c.logger.Debug("frame",
		"input", stats.InputTime,
		"reconcile", stats.ReconcileTime,
		"layout", stats.LayoutTime,
		"build", stats.BuildTime,
		"total", stats.Total())
	c.logger.Debug("frame counts",
		"visited", stats.Visited,
		"routines", stats.RoutineCalls,
		"changes", stats.DiffChanges,
		"iterations", stats.LayoutIterations,
		"primitives", stats.Primitives)
}

// debugCheckChildCount warns when a widget declares an unusually large
// number of children.
const debugMaxChildCount = 1000

func (c *Context) debugCheckChildCount(e Entity, n int) {
	if c.config.Debug && n > debugMaxChildCount {
		c.logger.Warn("widget has many children", "entity", e, "children", n, "threshold", debugMaxChildCount)
	}
}
