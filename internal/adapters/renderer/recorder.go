// Package renderer provides drawing adapters.
// Clean Architecture: Adapters implementing ports.Renderer. The real
// OpenGL view lives outside this module; the recorder stands in for it in
// tests and the console surface, keeping the core testable without a GPU.
package renderer

import "github.com/tsao100/AICAD-sub000/internal/domain/entities"

// OpKind tags a recorded draw call.
type OpKind int

const (
	OpLine OpKind = iota
	OpArc
)

// Op is one recorded draw call.
type Op struct {
	Kind    OpKind
	Preview bool

	A, B entities.Vec2 // line endpoints

	Center entities.Vec2 // arc geometry
	Radius float64
	Start  float64
	Sweep  float64
}

// Recorder records every paint call in order. Committed and preview
// geometry are distinguishable, which is what the rubber-band tests need.
type Recorder struct {
	Ops     []Op
	Clears  int
	preview bool
}

// NewRecorder returns an empty recording renderer.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) PaintLine(a, b entities.Vec2) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Preview: r.preview, A: a, B: b})
}

func (r *Recorder) PaintArc(center entities.Vec2, radius, start, sweep float64) {
	r.Ops = append(r.Ops, Op{
		Kind: OpArc, Preview: r.preview,
		Center: center, Radius: radius, Start: start, Sweep: sweep,
	})
}

func (r *Recorder) BeginPreview() { r.preview = true }
func (r *Recorder) EndPreview()   { r.preview = false }

// Clear drops the recorded frame, like wiping the drawing surface.
func (r *Recorder) Clear() {
	r.Ops = nil
	r.Clears++
}

// PreviewOps returns only the rubber-band preview calls of the frame.
func (r *Recorder) PreviewOps() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Preview {
			out = append(out, op)
		}
	}
	return out
}

// CommittedOps returns only the committed-geometry calls of the frame.
func (r *Recorder) CommittedOps() []Op {
	var out []Op
	for _, op := range r.Ops {
		if !op.Preview {
			out = append(out, op)
		}
	}
	return out
}

// Null discards every draw call; for headless runs.
type Null struct{}

func (Null) PaintLine(a, b entities.Vec2)                                {}
func (Null) PaintArc(center entities.Vec2, radius, start, sweep float64) {}
func (Null) BeginPreview()                                               {}
func (Null) EndPreview()                                                 {}
func (Null) Clear()                                                      {}
