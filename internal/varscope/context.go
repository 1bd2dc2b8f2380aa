package varscope

import (
	"github.com/blackcoderx/cannon/internal/value"
)

// RecordSource iterates the rows of a tabular resource (see
// internal/tabular). Next returns the next row as header->cell, false when
// the source is exhausted, or an error on a read failure.
type RecordSource interface {
	Next() (row map[string]string, ok bool, err error)
}

// Context is a per-worker, mutable variable scope: the rendering and lookup
// environment for templates and paths. It is never shared across workers;
// only ContextPool is shared, under its own lock.
type Context struct {
	variables *value.Object
	records   map[string]RecordSource
	engine    TemplateEngine
}

func newContext(vars *value.Object, records map[string]RecordSource, engine TemplateEngine) *Context {
	return &Context{variables: vars, records: records, engine: engine}
}

// Variables exposes the live variable object (used by Scheduler to snapshot
// a completed job's state for merge, and by Operation implementations that
// mutate named variables in place).
func (c *Context) Variables() *value.Object {
	return c.variables
}

// FindPath walks nested Objects/Arrays from the root variables object.
// Missing or type-incompatible paths return (Nil, false), never an error:
// callers (Variable.Path resolution) are responsible for turning a false
// into a ValueNotFound error.
func (c *Context) FindPath(p Path) (value.Value, bool) {
	if len(p) == 0 {
		return value.Obj(c.variables), true
	}
	head := p[0]
	v, ok := c.variables.Get(head)
	if !ok {
		return value.Nil, false
	}
	if len(p) == 1 {
		return v, true
	}
	return Resolve(v, p[1:])
}

// Apply renders s as a template over the current variables, per §4.2.
func (c *Context) Apply(s string) (string, error) {
	return c.engine.Render(s, c)
}

// PushVars merges additional into the current variables, overwriting any
// existing keys, as done after a capture (§4.7 step e: "local.push_vars(exported)").
func (c *Context) PushVars(additional *value.Object) {
	for _, k := range additional.Keys() {
		v, _ := additional.Get(k)
		c.variables.Set(k, v)
	}
}

// SetVar sets a single named variable, used by Operation implementations
// (Add/Sub/.../PushCsv all "replace the named variable in the Context").
func (c *Context) SetVar(name string, v value.Value) {
	c.variables.Set(name, v)
}

// Next advances every record iterator by one row, projecting each new row
// (header->cell, as an Object of strings) into variables[resource_name].
// An exhausted iterator or a row-read error leaves the prior variable value
// unchanged. Row-read errors are returned for the caller to log (see
// internal/scheduler); an exhausted iterator is skipped silently and is not
// reported in the returned slice, so nothing logs it.
func (c *Context) Next() []error {
	var errs []error
	for name, src := range c.records {
		row, ok, err := src.Next()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		obj := value.NewObject()
		for k, v := range row {
			obj.Set(k, value.String(v))
		}
		c.variables.Set(name, value.Obj(obj))
	}
	return errs
}

// cloneObject performs a shallow-independent copy of an Object: values
// themselves are immutable trees (no cycles, per spec §9), so only the
// key/map scaffolding needs duplicating for isolation between Contexts.
func cloneObject(src *value.Object) *value.Object {
	out := value.NewObject()
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		out.Set(k, v)
	}
	return out
}
