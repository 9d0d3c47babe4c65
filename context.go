package fern

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/phanxgames/fern/layout"
	"github.com/yohamta/donburi"
)

// Options configures a new Context. Zero fields take defaults.
type Options struct {
	Config Config
	Logger *log.Logger
	Engine LayoutEngine
	Fonts  *FontMapping
	// Metrics, when set, observes every frame's stats.
	Metrics *StatsCollector
}

// Context owns the UI state for one donburi world: the widget tree, widget
// type bindings, context registrations, computed layout and the primitive
// list of the last frame.
type Context struct {
	world  donburi.World
	config Config
	logger *log.Logger
	engine LayoutEngine

	tree     *Tree
	nodeTree *Tree
	widgets  *WidgetRegistry
	contexts *ContextRegistry
	layout   *LayoutCache
	fonts    *FontMapping

	typesMu     sync.RWMutex
	widgetTypes map[Entity]string
	mounted     []Entity

	dispatcher  *EventDispatcher
	input       []InputEvent
	injectQueue []InputEvent
	script      *Script

	windowSize Vec2
	primitives []Primitive

	frame     sync.Mutex
	stats     FrameStats
	lastStats FrameStats
	metrics   *StatsCollector
}

// NewContext creates a UI context for world.
func NewContext(world donburi.World, opts Options) *Context {
	cfg := opts.Config.withDefaults()
	c := &Context{
		world:       world,
		config:      cfg,
		logger:      opts.Logger,
		engine:      opts.Engine,
		tree:        NewTree(),
		nodeTree:    NewTree(),
		widgets:     NewWidgetRegistry(),
		contexts:    NewContextRegistry(),
		layout:      NewLayoutCache(),
		fonts:       opts.Fonts,
		widgetTypes: make(map[Entity]string),
		windowSize:  Vec2{X: cfg.WindowWidth, Y: cfg.WindowHeight},
		metrics:     opts.Metrics,
	}
	if c.logger == nil {
		c.logger = loggerFor(cfg)
	}
	if c.engine == nil {
		c.engine = layout.Solver[Entity]{}
	}
	if c.fonts == nil {
		c.fonts = NewFontMapping()
	}
	c.dispatcher = newEventDispatcher(c)
	return c
}

// World returns the host ECS world.
func (c *Context) World() donburi.World { return c.world }

// Tree returns the authoritative widget tree.
func (c *Context) Tree() *Tree { return c.tree }

// NodeTree returns the renderable tree built by the last layout pass.
func (c *Context) NodeTree() *Tree { return c.nodeTree }

// Widgets returns the widget type registry.
func (c *Context) Widgets() *WidgetRegistry { return c.widgets }

// Contexts returns the context registry.
func (c *Context) Contexts() *ContextRegistry { return c.contexts }

// Layout returns the layout cache.
func (c *Context) Layout() *LayoutCache { return c.layout }

// Fonts returns the font mapping Text widgets measure with.
func (c *Context) Fonts() *FontMapping { return c.fonts }

// Logger returns the context's logger.
func (c *Context) Logger() *log.Logger { return c.logger }

// Config returns the active configuration.
func (c *Context) Config() Config { return c.config }

// Dispatcher returns the event dispatcher.
func (c *Context) Dispatcher() *EventDispatcher { return c.dispatcher }

// AddWidgetSystem registers the update routine of a widget type.
func (c *Context) AddWidgetSystem(name string, fn UpdateFunc) {
	c.widgets.Register(name, fn)
}

// SetWindowSize sets the bounds the root is laid out in. The root is
// re-laid out on the next Update.
func (c *Context) SetWindowSize(w, h float64) {
	if c.windowSize.X == w && c.windowSize.Y == h {
		return
	}
	c.windowSize = Vec2{X: w, Y: h}
	if root := c.tree.Root(); root != donburi.Null {
		c.MarkDirty(root)
	}
}

// WindowSize returns the current layout bounds.
func (c *Context) WindowSize() Vec2 { return c.windowSize }

// QueueInput adds raw input for the next Update.
func (c *Context) QueueInput(events ...InputEvent) {
	c.input = append(c.input, events...)
}

// Update runs one frame: input dispatch against the previous layout,
// reconciliation, the layout loop and primitive building. It panics if
// called while another Update is running.
func (c *Context) Update() {
	if !c.frame.TryLock() {
		panic("fern: Context.Update called while a frame is in progress")
	}
	defer c.frame.Unlock()

	c.stats = FrameStats{}

	t0 := time.Now()
	if c.script != nil {
		c.script.step(c)
	}
	injected := c.processInjectedInput()
	for _, in := range c.input {
		if injected && in.Kind <= InputScroll {
			continue
		}
		c.dispatcher.process(in)
	}
	c.input = c.input[:0]
	c.stats.InputTime = time.Since(t0)

	t0 = time.Now()
	c.reconcile()
	c.stats.ReconcileTime = time.Since(t0)

	t0 = time.Now()
	c.calculate()
	c.stats.LayoutTime = time.Since(t0)

	t0 = time.Now()
	c.primitives = c.buildPrimitives()
	c.stats.Primitives = len(c.primitives)
	c.stats.BuildTime = time.Since(t0)

	c.lastStats = c.stats
	c.debugLog(c.stats)
	if c.metrics != nil {
		c.metrics.Observe(c.stats)
	}
}
