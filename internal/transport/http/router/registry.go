package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Module mounts its routes onto the shared groups: public gets no auth,
// protected sits behind the bearer-token gate.
type Module interface {
	Mount(public, protected *gin.RouterGroup)
}

// Modules may implement this to control mount order (lower mounts
// first); default is 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	mu   sync.Mutex
	mods []Module
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mods = append(r.mods, m)
}

func (r *Registry) MountAll(public, protected *gin.RouterGroup) {
	r.mu.Lock()
	list := append([]Module(nil), r.mods...)
	r.mu.Unlock()

	sort.SliceStable(list, func(i, j int) bool {
		return priorityOf(list[i]) < priorityOf(list[j])
	})
	for _, m := range list {
		m.Mount(public, protected)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
