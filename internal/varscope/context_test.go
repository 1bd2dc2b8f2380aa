package varscope

import (
	"errors"
	"testing"

	"github.com/blackcoderx/cannon/internal/value"
)

func newTestContext(vars *value.Object, records map[string]RecordSource) *Context {
	return newContext(vars, records, NewDefaultTemplateEngine())
}

func TestContextApplyRendersTemplate(t *testing.T) {
	vars := value.NewObject()
	vars.Set("host", value.String("example.com"))
	ctx := newTestContext(vars, nil)

	got, err := ctx.Apply("https://{{host}}/ping")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "https://example.com/ping" {
		t.Errorf("Apply = %q, want https://example.com/ping", got)
	}
}

func TestContextApplyMissingVariableFails(t *testing.T) {
	ctx := newTestContext(value.NewObject(), nil)
	if _, err := ctx.Apply("{{missing}}"); err == nil {
		t.Error("Apply should fail fast on an unresolved placeholder")
	}
}

func TestContextFindPath(t *testing.T) {
	nested := value.NewObject()
	nested.Set("n", value.Int(1))
	vars := value.NewObject()
	vars.Set("count", value.Int(7))
	vars.Set("obj", value.Obj(nested))
	ctx := newTestContext(vars, nil)

	v, ok := ctx.FindPath(Path{"count"})
	if !ok || v.String() != "7" {
		t.Errorf("FindPath(count) = (%v, %v)", v, ok)
	}

	v, ok = ctx.FindPath(Path{"obj", "n"})
	if !ok || v.String() != "1" {
		t.Errorf("FindPath(obj.n) = (%v, %v)", v, ok)
	}

	if _, ok := ctx.FindPath(Path{"nope"}); ok {
		t.Error("FindPath should report false for a missing key")
	}
}

func TestContextPushVarsOverwrites(t *testing.T) {
	vars := value.NewObject()
	vars.Set("count", value.Int(1))
	ctx := newTestContext(vars, nil)

	additional := value.NewObject()
	additional.Set("count", value.Int(2))
	additional.Set("fresh", value.String("x"))
	ctx.PushVars(additional)

	v, _ := ctx.FindPath(Path{"count"})
	if n, _ := v.AsInt(); n != 2 {
		t.Errorf("count after PushVars = %v, want 2", v)
	}
	v, _ = ctx.FindPath(Path{"fresh"})
	if s, _ := v.AsString(); s != "x" {
		t.Errorf("fresh after PushVars = %v, want x", v)
	}
}

type stubRecordSource struct {
	rows []map[string]string
	i    int
	err  error
}

func (s *stubRecordSource) Next() (map[string]string, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	if s.i >= len(s.rows) {
		return nil, false, nil
	}
	row := s.rows[s.i]
	s.i++
	return row, true, nil
}

func TestContextNextAdvancesEveryIteratorAndProjectsRows(t *testing.T) {
	// E4: tabular iteration over a two-row CSV-like resource.
	src := &stubRecordSource{rows: []map[string]string{
		{"id": "1", "name": "a"},
		{"id": "2", "name": "b"},
	}}
	records := map[string]RecordSource{"users": src}
	ctx := newTestContext(value.NewObject(), records)

	if errs := ctx.Next(); len(errs) != 0 {
		t.Fatalf("Next() errors = %v", errs)
	}
	rendered, err := ctx.Apply("/users/{{users.id}}")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rendered != "/users/1" {
		t.Errorf("first row render = %q, want /users/1", rendered)
	}

	if errs := ctx.Next(); len(errs) != 0 {
		t.Fatalf("Next() errors = %v", errs)
	}
	rendered, err = ctx.Apply("/users/{{users.id}}")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rendered != "/users/2" {
		t.Errorf("second row render = %q, want /users/2", rendered)
	}
}

func TestContextNextLeavesExhaustedVariableUnchanged(t *testing.T) {
	src := &stubRecordSource{rows: []map[string]string{{"id": "1"}}}
	records := map[string]RecordSource{"users": src}
	ctx := newTestContext(value.NewObject(), records)

	ctx.Next() // consumes the only row
	before, _ := ctx.FindPath(Path{"users", "id"})

	if errs := ctx.Next(); len(errs) != 0 {
		t.Fatalf("Next() on exhausted source should not error, got %v", errs)
	}
	after, _ := ctx.FindPath(Path{"users", "id"})
	if before.String() != after.String() {
		t.Errorf("exhausted iterator should leave prior value unchanged: %v != %v", before, after)
	}
}

func TestContextNextReportsRowError(t *testing.T) {
	src := &stubRecordSource{err: errors.New("read failed")}
	records := map[string]RecordSource{"users": src}
	ctx := newTestContext(value.NewObject(), records)

	errs := ctx.Next()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
}
