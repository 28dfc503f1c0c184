package gesturesound

import "log/slog"

// GestureStore is the interface for optional ECS integration. When set on a
// Scene, every gesture event from a processor registered through
// RegisterProcessor is forwarded to the store.
type GestureStore interface {
	EmitGesture(event GestureEvent)
}

// Geometry is the screen-to-object collaborator recognizers consume.
type Geometry interface {
	// ProjectToLocal projects a screen point onto target's local plane.
	// ok is false when the target is gone or has no invertible transform;
	// recognizers abort the gesture for that tick.
	ProjectToLocal(target *Node, screenX, screenY float64) (p Vec2, ok bool)
	// PickAt returns the topmost interactable node under a screen point.
	PickAt(screenX, screenY float64) *Node
}

// binding ties a live cursor to the node it targeted at press time and to
// the processors registered there at that moment.
type binding struct {
	cursor *Cursor
	target *Node
	procs  []Processor
}

// Scene owns a node tree, its cameras and its gesture routing. Cursors and
// locks live in the input state, which a Stage shares between its scenes.
type Scene struct {
	root    *Node
	cameras []*Camera
	input   *inputState
	cfg     Config
	store   GestureStore
	logger  *slog.Logger

	handlers   [numGestureKinds]listenerRegistry
	registered map[Processor]bool

	bindings []*binding
	hitBuf   []*Node
	flushBuf []Processor
	tweens   []*TweenGroup
}

const numGestureKinds = int(GestureScale) + 1

// NewScene creates a standalone scene with default configuration and its own
// cursor table and arbiter. Scenes that must hand cursors over to each
// other are created with Stage.NewScene instead.
func NewScene() *Scene {
	return newScene(newInputState(), DefaultConfig(), discardLogger)
}

func newScene(in *inputState, cfg Config, logger *slog.Logger) *Scene {
	root := NewNode("root")
	root.Interactable = true
	root.sceneRoot = true
	return &Scene{
		root:       root,
		input:      in,
		cfg:        cfg.withDefaults(),
		logger:     logger,
		registered: make(map[Processor]bool),
	}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Arbiter returns the lock arbiter cursors of this scene are negotiated with.
func (s *Scene) Arbiter() *Arbiter {
	return s.input.arb
}

// Config returns the configuration processors created by this scene use.
func (s *Scene) Config() Config {
	return s.cfg
}

// SetLogger sets the logger for routing diagnostics.
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	s.logger = l
}

// SetGestureStore sets the optional ECS bridge.
func (s *Scene) SetGestureStore(store GestureStore) {
	s.store = store
}

// Update refreshes transforms, cameras and tweens, then drains this tick's
// input.
func (s *Scene) Update() {
	s.advance()
	s.processInput()
}

// advance runs the per-tick work that does not depend on input.
func (s *Scene) advance() {
	dt := float32(1.0 / float64(s.cfg.Window.TPS))

	s.refreshTransforms()
	for _, cam := range s.cameras {
		cam.update(dt)
	}
	s.updateTweens(dt)
}

func (s *Scene) refreshTransforms() {
	updateWorldTransform(s.root, identityTransform, false)
}

// NewCamera creates a camera with the given viewport and adds it to the scene.
// The first camera is the one screen positions are mapped through.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	cam := newCamera(viewport)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	for i, c := range s.cameras {
		if c == cam {
			s.cameras = append(s.cameras[:i], s.cameras[i+1:]...)
			return
		}
	}
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// screenToWorld converts screen coordinates through the primary camera.
func (s *Scene) screenToWorld(sx, sy float64) (float64, float64) {
	if len(s.cameras) > 0 {
		return s.cameras[0].ScreenToWorld(sx, sy)
	}
	return sx, sy
}

// ProjectToLocal implements Geometry.
func (s *Scene) ProjectToLocal(target *Node, screenX, screenY float64) (Vec2, bool) {
	if !targetValid(target) || rootOf(target) != s.root {
		return Vec2{}, false
	}
	s.refreshTransforms()
	wx, wy := s.screenToWorld(screenX, screenY)
	return target.worldToLocalOK(wx, wy)
}

// PickAt implements Geometry.
func (s *Scene) PickAt(screenX, screenY float64) *Node {
	s.refreshTransforms()
	wx, wy := s.screenToWorld(screenX, screenY)
	return s.hitTest(wx, wy)
}

func rootOf(n *Node) *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// --- Processors and listeners ---

// RegisterProcessor adds p to node and routes p's events to the scene-level
// gesture listeners and the GestureStore.
func (s *Scene) RegisterProcessor(node *Node, p Processor) {
	node.AddProcessor(p)
	if s.registered[p] {
		return
	}
	s.registered[p] = true
	p.AddListener(s.dispatchGesture)
}

// OnGesture registers a scene-level listener for every gesture of kind
// emitted by processors added through RegisterProcessor.
func (s *Scene) OnGesture(kind GestureKind, fn func(GestureEvent)) ListenerHandle {
	if int(kind) >= numGestureKinds {
		panic("gesturesound: unknown gesture kind")
	}
	return s.handlers[kind].add(fn)
}

func (s *Scene) dispatchGesture(evt GestureEvent) {
	s.handlers[evt.Kind].fire(evt)
	if s.store != nil {
		s.store.EmitGesture(evt)
	}
}

// NewTapProcessor creates a tap processor wired to this scene's arbiter,
// geometry, configuration and logger.
func (s *Scene) NewTapProcessor() *TapProcessor {
	p := NewTapProcessor(s.input.arb, s)
	p.Radius = s.cfg.Tap.Radius
	p.SetLockPriority(s.cfg.Tap.Priority)
	p.SetLogger(s.logger)
	return p
}

// NewDragProcessor creates a drag processor wired to this scene.
func (s *Scene) NewDragProcessor() *DragProcessor {
	p := NewDragProcessor(s.input.arb, s)
	p.SetLockPriority(s.cfg.Drag.Priority)
	p.SetLogger(s.logger)
	return p
}

// NewScaleProcessor creates a scale processor wired to this scene.
func (s *Scene) NewScaleProcessor() *ScaleProcessor {
	p := NewScaleProcessor(s.input.arb, s)
	p.SetLockPriority(s.cfg.Scale.Priority)
	p.SetLogger(s.logger)
	return p
}

// NewRotateProcessor creates a rotate processor wired to this scene.
func (s *Scene) NewRotateProcessor() *RotateProcessor {
	p := NewRotateProcessor(s.input.arb, s)
	p.SetLockPriority(s.cfg.Rotate.Priority)
	p.SetLogger(s.logger)
	return p
}
