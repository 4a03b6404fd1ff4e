package chart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCanvasInUse is returned by Draw when the canvas already holds a live chart.
var ErrCanvasInUse = errors.New("canvas already holds a live chart")

// Instance is one chart bound to a canvas.
type Instance struct {
	ID        uuid.UUID
	Canvas    string
	Kind      Kind
	HTML      string
	CreatedAt time.Time

	mu        sync.Mutex
	destroyed bool
}

// Destroy releases the instance. It is safe to call more than once.
func (i *Instance) Destroy() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.destroyed = true
}

func (i *Instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

// Board binds chart instances to named canvases. A canvas holds at most one
// live instance: Redraw destroys the prior instance before constructing the
// next one, and Draw refuses to bind over a live instance.
type Board struct {
	renderer *Renderer

	mu      sync.Mutex
	current map[string]*Instance
	live    map[string]int
}

// NewBoard creates an empty board drawing with renderer.
func NewBoard(renderer *Renderer) *Board {
	if renderer == nil {
		renderer = NewRenderer()
	}
	return &Board{
		renderer: renderer,
		current:  make(map[string]*Instance),
		live:     make(map[string]int),
	}
}

// Draw binds a chart to a free canvas.
func (b *Board) Draw(canvas string, spec Spec) (*Instance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.live[canvas] > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCanvasInUse, canvas)
	}
	return b.construct(canvas, spec)
}

// Redraw destroys whatever the canvas holds and binds a new chart. If the new
// chart fails to render the canvas is left empty.
func (b *Board) Redraw(canvas string, spec Spec) (*Instance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if prior, ok := b.current[canvas]; ok {
		prior.Destroy()
		b.live[canvas]--
		delete(b.current, canvas)
	}
	return b.construct(canvas, spec)
}

func (b *Board) construct(canvas string, spec Spec) (*Instance, error) {
	html, err := b.renderer.Render(canvas, spec)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", canvas, err)
	}
	inst := &Instance{
		ID:        uuid.New(),
		Canvas:    canvas,
		Kind:      spec.Kind,
		HTML:      html,
		CreatedAt: time.Now().UTC(),
	}
	b.current[canvas] = inst
	b.live[canvas]++
	return inst, nil
}

// Current returns the live instance on canvas.
func (b *Board) Current(canvas string) (*Instance, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	inst, ok := b.current[canvas]
	return inst, ok
}

// Live reports how many undestroyed instances are bound to canvas.
func (b *Board) Live(canvas string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live[canvas]
}

// Canvases lists canvases that currently hold a chart.
func (b *Board) Canvases() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.current))
	for canvas := range b.current {
		out = append(out, canvas)
	}
	return out
}
