// Package usecases contains the interactive core: the GetPoint
// point-acquisition machine, the rubber-band construction machine and the
// command dispatcher. Usecases orchestrate entities and depend on port
// interfaces only; every collaborator is injected.
package usecases

import (
	"log"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
	"github.com/tsao100/AICAD-sub000/internal/domain/ports"
)

// PointHandler receives one resolved point.
type PointHandler func(entities.Vec2)

// pending is the handoff slot for a request started while the previous
// callback is still executing. It keeps a chaining callback from
// clobbering itself mid-resolution.
type pending struct {
	prompt   string
	prev     *entities.Vec2
	onPoint  PointHandler
	onCancel func()
}

// GetPoint acquires one point at a time from either pointer clicks or
// typed coordinate text. It never blocks: a caller registers a callback
// and returns, and a later input event resumes it.
//
// States: Idle -> AwaitingPoint -> (PointDelivered | Cancelled) -> Idle.
// At most one request is in flight; starting a second while one is active
// is a caller bug and is rejected.
type GetPoint struct {
	viewport *entities.Viewport
	parser   ports.PointParser
	msg      ports.Messenger

	active       bool
	resolving    bool
	prompt       string
	prevPoint    *entities.Vec2
	onPoint      PointHandler
	onCancel     func()
	next         *pending
	keyboardMode bool
}

// NewGetPoint wires the machine to its input collaborators.
func NewGetPoint(viewport *entities.Viewport, parser ports.PointParser, msg ports.Messenger) *GetPoint {
	return &GetPoint{
		viewport: viewport,
		parser:   parser,
		msg:      msg,
	}
}

// Active reports whether a point request is awaiting input.
func (g *GetPoint) Active() bool { return g.active }

// Prompt returns the prompt of the request awaiting input.
func (g *GetPoint) Prompt() string { return g.prompt }

// PreviousPoint returns the request's previous point, or nil.
func (g *GetPoint) PreviousPoint() *entities.Vec2 { return g.prevPoint }

// Start registers a point request. prev seeds relative/polar coordinate
// entry and may be nil. Returns false without touching state when a
// request is already active: callers must not double-start, and the
// machine enforces the invariant rather than corrupting itself.
//
// Calling Start from inside a resolving callback is the chaining path:
// the request is parked in the handoff slot and becomes current once the
// callback returns.
func (g *GetPoint) Start(prompt string, prev *entities.Vec2, onPoint PointHandler) bool {
	if g.active {
		log.Printf("[ERROR] GetPoint.Start(%q) while a request is active; ignored", prompt)
		return false
	}
	if g.resolving {
		g.next = &pending{prompt: prompt, prev: prev, onPoint: onPoint}
		return true
	}

	g.active = true
	g.prompt = prompt
	g.prevPoint = prev
	g.onPoint = onPoint
	g.onCancel = nil
	g.msg.Prompt(prompt)
	return true
}

// OnCancel registers a handler invoked if the current request is
// cancelled instead of resolved. Cleared with the request.
func (g *GetPoint) OnCancel(f func()) {
	if g.resolving && g.next != nil {
		g.next.onCancel = f
		return
	}
	g.onCancel = f
}

// SetKeyboardMode marks the user as mid-way through typing a coordinate
// line. While set, pointer deliveries are suppressed so a stray click
// cannot discard partially-typed input.
func (g *GetPoint) SetKeyboardMode(on bool) { g.keyboardMode = on }

// KeyboardMode reports whether typed entry is in progress.
func (g *GetPoint) KeyboardMode() bool { return g.keyboardMode }

// DeliverPointer resolves the active request with a screen-space click.
// Ignored when no request is active or keyboard entry is in progress.
func (g *GetPoint) DeliverPointer(screen entities.Vec2) {
	if !g.active || g.keyboardMode {
		return
	}
	world := g.viewport.Snap(g.viewport.ToWorld(screen))
	g.resolve(world)
}

// DeliverText resolves the active request with a typed coordinate line.
// On parse failure the request stays active, the error is surfaced and the
// user is re-prompted.
func (g *GetPoint) DeliverText(text string) {
	if !g.active {
		return
	}
	p, err := g.parser.Parse(text, g.prevPoint)
	if err != nil {
		g.msg.Error(err.Error())
		g.msg.Prompt(g.prompt)
		return
	}
	g.keyboardMode = false
	g.resolve(p)
}

// resolve transitions AwaitingPoint -> Idle before the callback runs, and
// moves the callback out of the machine first, so a callback that starts
// the next request observes a quiescent machine.
func (g *GetPoint) resolve(p entities.Vec2) {
	cb := g.onPoint
	g.clear()

	g.resolving = true
	cb(p)
	g.resolving = false

	if g.next != nil {
		n := g.next
		g.next = nil
		g.active = true
		g.prompt = n.prompt
		g.prevPoint = n.prev
		g.onPoint = n.onPoint
		g.onCancel = n.onCancel
		g.msg.Prompt(n.prompt)
	}
}

// Drop discards the active request without invoking either callback.
// Used when the owning command ends its input sequence deliberately, as
// opposed to the user cancelling it.
func (g *GetPoint) Drop() {
	if !g.active {
		return
	}
	g.clear()
}

// Cancel aborts the active request without invoking its point callback.
// No geometry is created on cancel; the cancel handler, if any, runs so
// the owning command can drop its transient state.
func (g *GetPoint) Cancel() {
	if !g.active {
		return
	}
	onCancel := g.onCancel
	g.clear()
	if onCancel != nil {
		onCancel()
	}
}

func (g *GetPoint) clear() {
	g.active = false
	g.prompt = ""
	g.prevPoint = nil
	g.onPoint = nil
	g.onCancel = nil
	g.keyboardMode = false
}
