// Package signature turns freehand pointer gestures into a raster image and
// certifies that the user actually signed. Strokes accumulate in an explicit
// list of point sequences; both the transport raster and the blank predicate
// derive from that list, so "was anything drawn" never depends on "rasterize
// for transport".
package signature

import "sync"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one uninterrupted pointer drag.
type Stroke []Point

// Pad is the persistent drawing surface. Pointer-down starts a stroke,
// pointer-move extends it, pointer-up (or leaving the surface) ends it.
// Strokes accumulate until explicitly cleared.
type Pad struct {
	mu      sync.Mutex
	width   int
	height  int
	strokes []Stroke
	drawing bool
}

// Surface dimensions of the approval screen's canvas.
const (
	DefaultWidth  = 800
	DefaultHeight = 200
)

func NewPad(width, height int) *Pad {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Pad{width: width, height: height}
}

func (p *Pad) Width() int  { return p.width }
func (p *Pad) Height() int { return p.height }

// Begin starts a new stroke at (x, y). A Begin while already drawing ends the
// current stroke first; pointer-down events cannot nest.
func (p *Pad) Begin(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drawing = true
	p.strokes = append(p.strokes, Stroke{{X: x, Y: y}})
}

// Extend adds a point to the current stroke. Moves while not drawing are
// ignored, matching a pointer gliding over the surface with the button up.
func (p *Pad) Extend(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawing || len(p.strokes) == 0 {
		return
	}
	last := len(p.strokes) - 1
	p.strokes[last] = append(p.strokes[last], Point{X: x, Y: y})
}

// End finishes the current stroke (pointer-up or pointer leaving the
// surface) and returns the pad to idle.
func (p *Pad) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drawing = false
}

// Clear wipes all strokes, returning the surface to the blank reference
// state.
func (p *Pad) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes = nil
	p.drawing = false
}

// IsBlank reports whether no ink was produced. A pad that was cleared is
// indistinguishable from one never drawn on.
func (p *Pad) IsBlank() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.strokes {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

// Strokes returns a copy of the accumulated strokes.
func (p *Pad) Strokes() []Stroke {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Stroke, len(p.strokes))
	for i, s := range p.strokes {
		cp := make(Stroke, len(s))
		copy(cp, s)
		out[i] = cp
	}
	return out
}
