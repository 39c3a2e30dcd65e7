package render

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/san-kum/kgforce/internal/dynamo"
)

// Surface draws a list of commands.
type Surface interface {
	Draw(cmds []Command, vp dynamo.Viewport) error
}

// Adapter renders frames with one encoding onto one surface.
type Adapter struct {
	enc     Encoding
	surface Surface
}

func NewAdapter(enc Encoding, s Surface) *Adapter {
	return &Adapter{enc: enc, surface: s}
}

func (a *Adapter) Encoding() Encoding { return a.enc }

func (a *Adapter) Draw(f Frame) error {
	return a.surface.Draw(Commands(a.enc, f), f.Viewport)
}

// SurfaceFactory builds a surface writing to w.
type SurfaceFactory func(w io.Writer) Surface

// Registry maps surface names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]SurfaceFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]SurfaceFactory)}
}

func (r *Registry) Register(name string, f SurfaceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(name string, w io.Writer) (Surface, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownSurface, name)
	}
	return f(w), nil
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
