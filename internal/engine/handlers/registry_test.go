package handlers

import (
	"avatar-server/internal/domain"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) ObserveDispatch(method, code string, _ time.Duration) {
	o.calls = append(o.calls, method+"="+code)
}

func newTestContext() *Context {
	return NewContext(domain.NewGameWorld(), "test")
}

func TestRegistry_UnknownMethodListsAvailable(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunc("b.two", func(*Context, Params) Result { return Ok() })
	r.RegisterFunc("a.one", func(*Context, Params) Result { return Ok() })

	res := r.Dispatch("nonexistent.method", newTestContext(), nil)

	if res.Code() != CodeMethodNotFound {
		t.Fatalf("code = %s, want METHOD_NOT_FOUND", res.Code())
	}
	if res.Message() != "Unknown method: nonexistent.method. Available: a.one, b.two" {
		t.Errorf("message = %q", res.Message())
	}
	if hint, _ := res.Hint(); hint != "Available: a.one, b.two" {
		t.Errorf("hint = %q", hint)
	}
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunc("m", func(*Context, Params) Result { return OkValue("v", 1) })
	r.RegisterFunc("m", func(*Context, Params) Result { return OkValue("v", 2) })

	if got := r.Dispatch("m", newTestContext(), Params{}).Data()["v"]; got != 2 {
		t.Errorf("v = %v, want 2", got)
	}
	if !r.HasMethod("m") || r.HasMethod("n") {
		t.Error("HasMethod mismatch")
	}
}

func TestRegistry_PanicBecomesInternalError(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunc("boom", func(*Context, Params) Result { panic(errors.New("kaboom")) })
	r.RegisterFunc("nil", func(ctx *Context, _ Params) Result {
		var e *domain.Entity
		return OkValue("name", e.Name)
	})

	res := r.Dispatch("boom", newTestContext(), Params{})
	if res.Code() != CodeInternalError || res.Message() != "kaboom" {
		t.Errorf("got %s: %s", res.Code(), res.Message())
	}

	res = r.Dispatch("nil", newTestContext(), Params{})
	if res.Code() != CodeInternalError || !strings.Contains(res.Message(), "nil pointer") {
		t.Errorf("got %s: %s", res.Code(), res.Message())
	}
}

func TestRegistry_Observer(t *testing.T) {
	r := NewRegistry()
	obs := &recordingObserver{}
	r.SetObserver(obs)
	r.RegisterFunc("ok", func(*Context, Params) Result { return Ok() })

	r.Dispatch("ok", newTestContext(), nil)
	r.Dispatch("missing", newTestContext(), nil)

	want := []string{"ok=OK", "missing=METHOD_NOT_FOUND"}
	if strings.Join(obs.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", obs.calls, want)
	}
}

func TestContext_Lookups(t *testing.T) {
	ctx := newTestContext()
	first := domain.NewAgent("Bob", domain.Vec3{}, domain.DefaultAttributes())
	second := domain.NewAgent("Bob", domain.Vec3{}, domain.DefaultAttributes())
	ctx.World.AddEntity("", first)
	ctx.World.AddEntity("", second)

	if ctx.FindAgent("Bob") != first {
		t.Error("FindAgent should return the first match")
	}
	if ctx.FindAgent("bob") != nil {
		t.Error("FindAgent is case-sensitive")
	}
	if ctx.ResolveEntity(second.ID.String()) != second {
		t.Error("ResolveEntity by uuid failed")
	}
	if ctx.ResolveEntity("not-a-uuid") != nil {
		t.Error("malformed uuid should resolve to nil")
	}
	if got := ctx.SpawnAnchor(); got != (domain.Vec3{X: 0.5, Y: 64, Z: 0.5}) {
		t.Errorf("SpawnAnchor = %v", got)
	}
}
