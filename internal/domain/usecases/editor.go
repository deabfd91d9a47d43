package usecases

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
	"github.com/tsao100/AICAD-sub000/internal/domain/ports"
)

// Editor orchestrates the interactive core: it owns the document, the
// viewport, the GetPoint and rubber-band machines, and the command
// registry that drives multi-step input by chaining point callbacks.
// Everything runs on the single UI event thread; no locking.
type Editor struct {
	Doc      *entities.Document
	Viewport *entities.Viewport
	Points   *GetPoint
	Rubber   *RubberBand
	Registry *CommandRegistry

	// AutosaveDir, when set, makes SAVE also export every sketch as a
	// text file there.
	AutosaveDir string

	renderer ports.Renderer
	store    ports.FeatureStore
	sketchIO SketchFileIO
	msg      ports.Messenger

	activeSketch *entities.SketchNode

	// finish is the per-command Enter handler: what to do when the user
	// ends the current input sequence without another point.
	finish func()
}

// SketchFileIO is the line-oriented text save/load of the entity layer.
// Kept as a small local contract so the editor does not care which
// adapter implements the file format.
type SketchFileIO interface {
	Save(path string, sketch *entities.SketchNode) error
	Load(path string) ([]entities.Entity, error)
}

// NewEditor wires the interactive core. All collaborators are injected.
func NewEditor(
	renderer ports.Renderer,
	store ports.FeatureStore,
	parser ports.PointParser,
	sketchIO SketchFileIO,
	msg ports.Messenger,
) *Editor {
	vp := entities.NewViewport()
	ed := &Editor{
		Doc:      entities.NewDocument("Untitled"),
		Viewport: vp,
		Points:   NewGetPoint(vp, parser, msg),
		Rubber:   &RubberBand{},
		Registry: NewCommandRegistry(),
		renderer: renderer,
		store:    store,
		sketchIO: sketchIO,
		msg:      msg,
	}
	ed.registerBuiltins()
	return ed
}

func (ed *Editor) registerBuiltins() {
	r := ed.Registry
	r.Register(Command{Name: "LINE", Aliases: []string{"L"}, ExpectedArgs: 0, Handler: ed.cmdLine})
	r.Register(Command{Name: "PLINE", Aliases: []string{"PL"}, ExpectedArgs: 0, Handler: ed.cmdPline})
	r.Register(Command{Name: "ARC", Aliases: []string{"A"}, ExpectedArgs: 0, Handler: ed.cmdArc})
	r.Register(Command{Name: "RECTANG", Aliases: []string{"REC", "RECTANGLE"}, ExpectedArgs: 0, Handler: ed.cmdRectangle})
	r.Register(Command{Name: "EXTRUDE", Aliases: []string{"EXT"}, ExpectedArgs: -1, Handler: ed.cmdExtrude})
	r.Register(Command{Name: "SKETCH", Aliases: []string{"SK"}, ExpectedArgs: -1, Handler: ed.cmdSketch})
	r.Register(Command{Name: "ZOOM", Aliases: []string{"Z"}, ExpectedArgs: 1, Handler: ed.cmdZoom})
	r.Register(Command{Name: "PAN", Aliases: []string{"P"}, ExpectedArgs: 2, Handler: ed.cmdPan})
	r.Register(Command{Name: "REGEN", Aliases: []string{"RE"}, ExpectedArgs: 0, Handler: ed.cmdRegen})
	r.Register(Command{Name: "LIST", Aliases: []string{"LS"}, ExpectedArgs: 0, Handler: ed.cmdList})
	r.Register(Command{Name: "NEW", ExpectedArgs: -1, Handler: ed.cmdNew})
	r.Register(Command{Name: "SAVE", ExpectedArgs: 0, Handler: ed.cmdSave})
	r.Register(Command{Name: "SAVEAS", ExpectedArgs: 1, Handler: ed.cmdSaveAs})
	r.Register(Command{Name: "OPEN", ExpectedArgs: 1, Handler: ed.cmdOpen})
	r.Register(Command{Name: "RELOAD", ExpectedArgs: 0, Handler: ed.cmdReload})
	r.Register(Command{Name: "EXPORT", ExpectedArgs: 1, Handler: ed.cmdExport})
	r.Register(Command{Name: "IMPORT", ExpectedArgs: 1, Handler: ed.cmdImport})
	r.Register(Command{Name: "HIDE", ExpectedArgs: 1, Handler: ed.cmdHide})
	r.Register(Command{Name: "SHOW", ExpectedArgs: 1, Handler: ed.cmdShow})
}

// Dispatch runs a named command. Arity and lookup errors come back to the
// surface as recoverable messages.
func (ed *Editor) Dispatch(name string, args []string) error {
	return ed.Registry.Dispatch(name, args)
}

// ActiveSketch returns the sketch receiving committed entities, or nil.
func (ed *Editor) ActiveSketch() *entities.SketchNode { return ed.activeSketch }

// requireSketch returns the active sketch, creating one on the XY plane
// when none exists so draw commands work in a fresh document.
func (ed *Editor) requireSketch() *entities.SketchNode {
	if ed.activeSketch == nil {
		ed.activeSketch = ed.Doc.CreateSketch(entities.NewStandardPlane(entities.PlaneXY), "")
		ed.msg.Info(fmt.Sprintf("Created %s on plane XY", ed.activeSketch.Name))
	}
	return ed.activeSketch
}

// PointerMove updates the rubber-band preview with the live cursor.
func (ed *Editor) PointerMove(screen entities.Vec2) {
	if !ed.Rubber.Active() {
		return
	}
	ed.Rubber.Update(ed.Viewport.ToWorld(screen))
	ed.Repaint()
}

// PointerClick feeds a click into the active point request.
func (ed *Editor) PointerClick(screen entities.Vec2) {
	ed.Points.DeliverPointer(screen)
}

// TextInput feeds one typed line into the active point request.
func (ed *Editor) TextInput(line string) {
	ed.Points.DeliverText(line)
}

// EndSequence is the Enter/right-click handler: it finishes the current
// construction without committing a dangling segment. The pending point
// request is dropped silently; the owning command's finish step decides
// whether anything gets committed.
func (ed *Editor) EndSequence() {
	if !ed.Points.Active() && ed.finish == nil {
		return
	}
	ed.Points.Drop()
	f := ed.finish
	ed.finish = nil
	if f != nil {
		f()
		return
	}
	if ed.Rubber.Active() {
		ed.Rubber.Clear()
		ed.Repaint()
	}
}

// CancelActive is the Escape handler: the in-flight request is discarded
// without resolving, preview state is cleared, and nothing is committed.
func (ed *Editor) CancelActive() {
	ed.finish = nil
	ed.Points.Cancel()
	if ed.Rubber.Active() {
		ed.Rubber.Clear()
		ed.Repaint()
	}
}

func (ed *Editor) clearConstruction() {
	ed.finish = nil
	ed.Rubber.Clear()
	ed.msg.Info("*Cancel*")
	ed.Repaint()
}

// Repaint redraws committed geometry and the live preview.
func (ed *Editor) Repaint() {
	ed.renderer.Clear()
	for _, f := range ed.Doc.Features {
		s, ok := f.(*entities.SketchNode)
		if !ok || ed.Doc.IsHidden(s.ID) {
			continue
		}
		for _, e := range s.Entities {
			e.Paint(ed.renderer)
		}
	}
	ed.Rubber.Paint(ed.renderer)
}

// ---- drawing commands ----

func (ed *Editor) cmdLine(args []string) error {
	sketch := ed.requireSketch()
	ed.Points.Start("Specify first point: ", nil, func(p entities.Vec2) {
		ed.Rubber.Begin(RubberLine, p)
		ed.lineChain(sketch, p)
	})
	ed.Points.OnCancel(ed.clearConstruction)
	return nil
}

// lineChain keeps asking for the next point; every delivered point commits
// one segment and becomes the new anchor, which is the continuous-polyline
// behavior of the LINE command.
func (ed *Editor) lineChain(sketch *entities.SketchNode, from entities.Vec2) {
	prev := from
	ed.Points.Start("Specify next point: ", &prev, func(to entities.Vec2) {
		sketch.AddEntity(&entities.LineEntity{From: from, To: to})
		ed.Rubber.Push(to)
		ed.Repaint()
		ed.lineChain(sketch, to)
	})
	ed.Points.OnCancel(ed.clearConstruction)
}

func (ed *Editor) cmdPline(args []string) error {
	sketch := ed.requireSketch()
	ed.Points.Start("Specify start point: ", nil, func(p entities.Vec2) {
		ed.Rubber.Begin(RubberPolyline, p)
		ed.finish = func() { ed.commitPolyline(sketch) }
		ed.plineChain(p)
	})
	ed.Points.OnCancel(ed.clearConstruction)
	return nil
}

func (ed *Editor) plineChain(from entities.Vec2) {
	prev := from
	ed.Points.Start("Specify next point: ", &prev, func(to entities.Vec2) {
		ed.Rubber.Push(to)
		ed.Repaint()
		ed.plineChain(to)
	})
	ed.Points.OnCancel(ed.clearConstruction)
}

// commitPolyline turns the accumulated preview vertices into one polyline
// entity. A single anchored point with no segments commits nothing.
func (ed *Editor) commitPolyline(sketch *entities.SketchNode) {
	pts := append([]entities.Vec2{ed.Rubber.StartPoint}, ed.Rubber.Intermediate...)
	ed.Rubber.Clear()
	if len(pts) >= 2 {
		sketch.AddEntity(&entities.PolylineEntity{Points: pts})
		ed.msg.Info(fmt.Sprintf("Polyline with %d vertices", len(pts)))
	}
	ed.Repaint()
}

func (ed *Editor) cmdArc(args []string) error {
	sketch := ed.requireSketch()
	ed.Points.Start("Specify start point of arc: ", nil, func(p1 entities.Vec2) {
		ed.Rubber.Begin(RubberArc3Point, p1)
		prev := p1
		ed.Points.Start("Specify second point of arc: ", &prev, func(p2 entities.Vec2) {
			ed.Rubber.Push(p2)
			ed.arcThirdPoint(sketch, p1, p2)
		})
		ed.Points.OnCancel(ed.clearConstruction)
	})
	ed.Points.OnCancel(ed.clearConstruction)
	return nil
}

// arcThirdPoint asks for the end point until the three picks admit a
// circle fit. Collinear picks are a recoverable user error: the commit is
// refused and the prompt repeats, never a degenerate arc.
func (ed *Editor) arcThirdPoint(sketch *entities.SketchNode, p1, p2 entities.Vec2) {
	prev := p2
	ed.Points.Start("Specify end point of arc: ", &prev, func(p3 entities.Vec2) {
		def, ok := entities.CircleFrom3Points(p1, p2, p3)
		if !ok {
			ed.msg.Error("Points are collinear; no arc fits")
			ed.arcThirdPoint(sketch, p1, p2)
			return
		}
		sketch.AddEntity(&entities.ArcEntity{Def: def})
		ed.Rubber.Clear()
		ed.Repaint()
	})
	ed.Points.OnCancel(ed.clearConstruction)
}

func (ed *Editor) cmdRectangle(args []string) error {
	sketch := ed.requireSketch()
	ed.Points.Start("Specify first corner: ", nil, func(c1 entities.Vec2) {
		ed.Rubber.Begin(RubberRectangle, c1)
		prev := c1
		ed.Points.Start("Specify other corner: ", &prev, func(c2 entities.Vec2) {
			sketch.AddEntity(&entities.PolylineEntity{Points: RectangleCorners(c1, c2)})
			ed.Rubber.Clear()
			ed.Repaint()
		})
		ed.Points.OnCancel(ed.clearConstruction)
	})
	ed.Points.OnCancel(ed.clearConstruction)
	return nil
}

// ---- feature commands ----

func (ed *Editor) cmdSketch(args []string) error {
	if len(args) == 0 {
		s := ed.Doc.CreateSketch(entities.NewStandardPlane(entities.PlaneXY), "")
		ed.activeSketch = s
		ed.msg.Info(fmt.Sprintf("%s active on plane XY", s.Name))
		return nil
	}

	arg := strings.ToUpper(args[0])
	switch arg {
	case "XY", "XZ", "YZ":
		kind := map[string]entities.PlaneKind{
			"XY": entities.PlaneXY,
			"XZ": entities.PlaneXZ,
			"YZ": entities.PlaneYZ,
		}[arg]
		s := ed.Doc.CreateSketch(entities.NewStandardPlane(kind), "")
		ed.activeSketch = s
		ed.msg.Info(fmt.Sprintf("%s active on plane %s", s.Name, arg))
		return nil
	default:
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("SKETCH expects XY, XZ, YZ or a sketch id")
		}
		s := ed.Doc.FindSketch(id)
		if s == nil {
			return fmt.Errorf("no sketch with id %d", id)
		}
		ed.activeSketch = s
		ed.msg.Info(fmt.Sprintf("%s active", s.Name))
		return nil
	}
}

func (ed *Editor) cmdExtrude(args []string) error {
	switch len(args) {
	case 1:
		height, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("bad height %q", args[0])
		}
		if ed.activeSketch == nil {
			return fmt.Errorf("no active sketch to extrude")
		}
		ext := ed.Doc.CreateExtrude(ed.activeSketch.ID, height, ed.activeSketch.Plane.Normal, "")
		if ext == nil {
			return fmt.Errorf("sketch %d is gone", ed.activeSketch.ID)
		}
		ed.msg.Info(fmt.Sprintf("%s height %g", ext.Name, ext.Height))
		return nil

	case 2:
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad feature id %q", args[0])
		}
		height, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("bad height %q", args[1])
		}
		switch f := ed.Doc.FindFeature(id).(type) {
		case *entities.SketchNode:
			ext := ed.Doc.CreateExtrude(f.ID, height, f.Plane.Normal, "")
			if ext == nil {
				return fmt.Errorf("sketch %d is gone", id)
			}
			ed.msg.Info(fmt.Sprintf("%s height %g", ext.Name, ext.Height))
			return nil
		case *entities.ExtrudeNode:
			// Height edit re-evaluates the cached geometry.
			f.Height = height
			f.Evaluate(ed.Doc)
			ed.msg.Info(fmt.Sprintf("%s height %g", f.Name, f.Height))
			return nil
		default:
			return fmt.Errorf("no feature with id %d", id)
		}

	default:
		return fmt.Errorf("usage: EXTRUDE <height> | EXTRUDE <id> <height>")
	}
}

func (ed *Editor) cmdList(args []string) error {
	if len(ed.Doc.Features) == 0 {
		ed.msg.Info("(empty document)")
		return nil
	}
	for _, f := range ed.Doc.Features {
		switch n := f.(type) {
		case *entities.SketchNode:
			ed.msg.Info(fmt.Sprintf("%4d  SKETCH  %-12s plane=%s entities=%d",
				n.ID, n.Name, n.Plane.Kind, len(n.Entities)))
		case *entities.ExtrudeNode:
			state := fmt.Sprintf("sketch=%d", n.SketchID)
			if ed.Doc.FindSketch(n.SketchID) == nil {
				state = fmt.Sprintf("sketch=%d (dangling)", n.SketchID)
			}
			ed.msg.Info(fmt.Sprintf("%4d  EXTRUDE %-12s height=%g %s",
				n.ID, n.Name, n.Height, state))
		}
	}
	return nil
}

func (ed *Editor) cmdHide(args []string) error {
	return ed.setHidden(args[0], true)
}

func (ed *Editor) cmdShow(args []string) error {
	return ed.setHidden(args[0], false)
}

func (ed *Editor) setHidden(arg string, hidden bool) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("bad feature id %q", arg)
	}
	if ed.Doc.FindFeature(id) == nil {
		return fmt.Errorf("no feature with id %d", id)
	}
	ed.Doc.SetHidden(id, hidden)
	ed.Repaint()
	return nil
}

// ---- view commands ----

func (ed *Editor) cmdZoom(args []string) error {
	factor, err := strconv.ParseFloat(args[0], 64)
	if err != nil || factor <= 0 {
		return fmt.Errorf("bad zoom factor %q", args[0])
	}
	ed.Viewport.Zoom(factor)
	ed.Repaint()
	return nil
}

func (ed *Editor) cmdPan(args []string) error {
	dx, err1 := strconv.ParseFloat(args[0], 64)
	dy, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("bad pan offsets %q %q", args[0], args[1])
	}
	ed.Viewport.Pan(dx, dy)
	ed.Repaint()
	return nil
}

func (ed *Editor) cmdRegen(args []string) error {
	ed.Repaint()
	return nil
}

// ---- document commands ----

func (ed *Editor) cmdNew(args []string) error {
	name := "Untitled"
	if len(args) > 0 {
		name = args[0]
	}
	ed.CancelActive()
	ed.Doc = entities.NewDocument(name)
	ed.activeSketch = nil
	ed.Repaint()
	ed.msg.Info(fmt.Sprintf("New document %q", name))
	return nil
}

func (ed *Editor) cmdSave(args []string) error {
	if err := ed.store.Save(context.Background(), ed.Doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	ed.msg.Info(fmt.Sprintf("Saved %q (%d features)", ed.Doc.Name, len(ed.Doc.Features)))

	if ed.AutosaveDir != "" {
		for _, s := range ed.Doc.Sketches() {
			path := filepath.Join(ed.AutosaveDir, s.Name+".sk")
			if err := ed.sketchIO.Save(path, s); err != nil {
				ed.msg.Error(fmt.Sprintf("autosave %s: %v", s.Name, err))
			}
		}
	}
	return nil
}

// cmdSaveAs renames the document and saves it; subsequent SAVEs target the
// new name.
func (ed *Editor) cmdSaveAs(args []string) error {
	ed.Doc.Name = args[0]
	return ed.cmdSave(nil)
}

// cmdReload discards unsaved edits and restores the last saved state of the
// current document.
func (ed *Editor) cmdReload(args []string) error {
	if err := ed.cmdOpen([]string{ed.Doc.Name}); err != nil {
		return fmt.Errorf("reloading: %w", err)
	}
	return nil
}

func (ed *Editor) cmdOpen(args []string) error {
	doc, err := ed.store.Load(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("opening %q: %w", args[0], err)
	}
	ed.CancelActive()
	ed.Doc = doc
	ed.activeSketch = nil
	if sketches := doc.Sketches(); len(sketches) > 0 {
		ed.activeSketch = sketches[len(sketches)-1]
	}
	ed.Repaint()
	ed.msg.Info(fmt.Sprintf("Opened %q (%d features)", doc.Name, len(doc.Features)))
	return nil
}

func (ed *Editor) cmdExport(args []string) error {
	if ed.activeSketch == nil {
		return fmt.Errorf("no active sketch to export")
	}
	if err := ed.sketchIO.Save(args[0], ed.activeSketch); err != nil {
		return fmt.Errorf("exporting sketch: %w", err)
	}
	ed.msg.Info(fmt.Sprintf("Exported %s to %s", ed.activeSketch.Name, args[0]))
	return nil
}

func (ed *Editor) cmdImport(args []string) error {
	ents, err := ed.sketchIO.Load(args[0])
	if err != nil {
		return fmt.Errorf("importing sketch: %w", err)
	}
	sketch := ed.requireSketch()
	for _, e := range ents {
		sketch.AddEntity(e)
	}
	ed.Repaint()
	ed.msg.Info(fmt.Sprintf("Imported %d entities into %s", len(ents), sketch.Name))
	return nil
}
