package varscope

import (
	"sync"

	"github.com/google/uuid"

	"github.com/blackcoderx/cannon/internal/value"
)

// ResourceOpener opens a fresh RecordSource for a resource's backing path.
// Injected so this package stays independent of the concrete tabular
// (CSV) implementation; internal/tabular supplies the real one.
type ResourceOpener func(path string) (RecordSource, error)

// Pool is the process-wide shared scope (ContextPool in the spec):
// globals, per-run contextual overlays, and resource handles, snapshotted
// into worker Contexts and merged back at job boundaries. All mutation is
// serialised by mu; Context itself is never shared across workers.
type Pool struct {
	mu         sync.Mutex
	globals    *value.Object
	contextual map[uuid.UUID]*value.Object
	resources  map[string]string
	engine     TemplateEngine
	opener     ResourceOpener
}

// NewPool builds a ContextPool seeded with the manifest's top-level vars
// and resource handles.
func NewPool(globals *value.Object, resources map[string]string, engine TemplateEngine, opener ResourceOpener) *Pool {
	return &Pool{
		globals:    globals,
		contextual: make(map[uuid.UUID]*value.Object),
		resources:  resources,
		engine:     engine,
		opener:     opener,
	}
}

// PushContextualVars registers per-run overlay variables keyed by a
// RunInfo's id, consulted by NewContext when constructing that run's
// Context (contextual[id] ∪ globals, per §3's Context invariant).
func (p *Pool) PushContextualVars(id uuid.UUID, vars *value.Object) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.contextual[id] = vars
}

// NewContext builds a fresh Context for run id: variables start as
// globals ∪ contextual[id], with fresh record iterators opened for every
// registered resource. This is one of the two pool-lock acquisitions a
// worker makes per job (§5): the lock is held only for this snapshot, never
// across network I/O.
func (p *Pool) NewContext(id uuid.UUID) (*Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	vars := cloneObject(p.globals)
	if overlay, ok := p.contextual[id]; ok {
		for _, k := range overlay.Keys() {
			v, _ := overlay.Get(k)
			vars.Set(k, v)
		}
	}

	records := make(map[string]RecordSource, len(p.resources))
	for name, path := range p.resources {
		src, err := p.opener(path)
		if err != nil {
			return nil, err
		}
		records[name] = src
	}

	return newContext(vars, records, p.engine), nil
}

// Merge inserts ctx's ending variables verbatim into globals[groupName],
// overwriting any previous value there. This is the worker's second and
// final pool-lock acquisition per job.
func (p *Pool) Merge(ctx *Context, groupName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.globals.Set(groupName, value.Obj(cloneObject(ctx.variables)))
}

// Globals returns a snapshot of the pool's globals object. Intended for
// tests and for the final report/telemetry summary; callers must not
// mutate the returned Object.
func (p *Pool) Globals() *value.Object {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneObject(p.globals)
}
