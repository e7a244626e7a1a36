package console

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine"
	"avatar-server/internal/engine/handlers/actions"
	"avatar-server/pkg/api"
	"avatar-server/pkg/logger"
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	logger.Init("warn", "text")
	os.Exit(m.Run())
}

func TestParse(t *testing.T) {
	tests := []struct {
		line   string
		method string
		params map[string]any
		target string
	}{
		{"spawn Bob", api.MethodSpawn, map[string]any{"name": "Bob"}, ""},
		{"spawn Bob 1 64 -2.5", api.MethodSpawn, map[string]any{"name": "Bob", "x": 1.0, "y": 64.0, "z": -2.5}, ""},
		{`spawn "Big Bob"`, api.MethodSpawn, map[string]any{"name": "Big Bob"}, ""},
		{"dismiss", api.MethodDismiss, map[string]any{}, ""},
		{"dismiss Bob", api.MethodDismiss, map[string]any{"agent": "Bob"}, ""},
		{"moveto Bob 3 64 0", api.MethodMoveTo, map[string]any{"agent": "Bob", "x": 3.0, "y": 64.0, "z": 0.0}, ""},
		{"stop Bob", api.MethodStop, map[string]any{"agent": "Bob"}, ""},
		{"lookat Bob clear", api.MethodLookClear, map[string]any{"agent": "Bob"}, ""},
		{"lookat Bob Alice", api.MethodLookAt, map[string]any{"agent": "Bob"}, "Alice"},
		{"attack Bob Zombie", api.MethodAttack, map[string]any{"agent": "Bob"}, "Zombie"},
		{"chat Bob hello  there", api.MethodChat, map[string]any{"agent": "Bob", "message": "hello there"}, ""},
		{"model Bob clear", api.MethodSetModel, map[string]any{"agent": "Bob"}, ""},
		{"model Bob steve", api.MethodSetModel, map[string]any{"agent": "Bob", "modelFolder": "steve"}, ""},
		{"status Bob", api.MethodPerceptionSelf, map[string]any{"agent": "Bob"}, ""},
		{"LIST", api.MethodPerceptionAgents, map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cmd.Method != tt.method {
				t.Errorf("method = %q, want %q", cmd.Method, tt.method)
			}
			if cmd.TargetRef != tt.target {
				t.Errorf("target = %q, want %q", cmd.TargetRef, tt.target)
			}
			if len(cmd.Params) != len(tt.params) {
				t.Fatalf("params = %v, want %v", cmd.Params, tt.params)
			}
			for k, want := range tt.params {
				if got := cmd.Params[k]; got != want {
					t.Errorf("params[%s] = %v, want %v", k, got, want)
				}
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"spawn", "usage: spawn"},
		{"spawn Bob 1 2", "usage: spawn"},
		{"moveto Bob 1 two 3", `y: "two" is not a number`},
		{"attack Bob", "usage: attack"},
		{"chat Bob", "usage: chat"},
		{`spawn "Bob`, "unterminated quote"},
		{"fly Bob", `unknown command "fly"`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}

	if _, err := Parse("   "); err != ErrEmptyLine {
		t.Errorf("blank line err = %v", err)
	}
	if cmd, err := Parse("help"); err != nil || !cmd.Help {
		t.Errorf("help = %+v, %v", cmd, err)
	}
}

func newConsole(t *testing.T, out *bytes.Buffer) (*Console, *engine.Service) {
	t.Helper()
	cfg := engine.NewConfig()
	cfg.TickRateHz = 100
	registry := actions.NewRegistry()
	svc := engine.NewService(cfg, domain.NewGameWorld(), registry)

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Run(context.Background()) }()
	t.Cleanup(func() {
		svc.Stop()
		<-errCh
	})
	return New(registry, svc, out), svc
}

func do(t *testing.T, c *Console, line string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	text, err := c.Do(ctx, line)
	if err != nil {
		t.Fatalf("%s: %v", line, err)
	}
	return text
}

func TestConsole_SameSemanticsAsRegistry(t *testing.T) {
	c, _ := newConsole(t, &bytes.Buffer{})

	if got := do(t, c, "spawn Bob 0 64 0"); !strings.Contains(got, `"name":"Bob"`) || !strings.Contains(got, `"uuid"`) {
		t.Errorf("spawn = %s", got)
	}
	if got := do(t, c, "spawn Bob"); !strings.HasPrefix(got, "[avatar] AGENT_EXISTS: ") {
		t.Errorf("second spawn = %s", got)
	}
	if got := do(t, c, "stop Bob"); got != "OK" {
		t.Errorf("stop = %s", got)
	}
	if got := do(t, c, "status Nobody"); got != "[avatar] AGENT_NOT_FOUND: No agent named 'Nobody' found" {
		t.Errorf("status = %s", got)
	}
	if got := do(t, c, "moveto Bob x 64 0"); !strings.HasPrefix(got, "[avatar] x: ") {
		t.Errorf("moveto = %s", got)
	}
	if got := do(t, c, "help"); got != Usage {
		t.Errorf("help = %s", got)
	}
	if got := do(t, c, ""); got != "" {
		t.Errorf("blank = %q", got)
	}
}

func TestConsole_TargetByName(t *testing.T) {
	c, svc := newConsole(t, &bytes.Buffer{})

	do(t, c, "spawn Bob 0 64 0")
	do(t, c, "spawn Alice 1 64 0")

	if got := do(t, c, "lookat Bob alice"); !strings.Contains(got, "Looking at Alice") {
		t.Errorf("lookat by name = %s", got)
	}
	if got := do(t, c, "lookat Bob Ghost"); !strings.HasPrefix(got, "[avatar] TARGET_NOT_FOUND: ") {
		t.Errorf("lookat unknown = %s", got)
	}

	var aliceID string
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := svc.Call(ctx, func(w *domain.GameWorld) {
		for _, a := range w.Agents() {
			if a.Name == "Alice" {
				aliceID = a.ID.String()
			}
		}
	})
	if err != nil || aliceID == "" {
		t.Fatalf("alice lookup: %v", err)
	}
	if got := do(t, c, "lookat Bob "+aliceID); !strings.Contains(got, "Looking at Alice") {
		t.Errorf("lookat by uuid = %s", got)
	}
}

func TestConsole_Run(t *testing.T) {
	var out bytes.Buffer
	c, _ := newConsole(t, &out)
	c.Prompt = true

	in := strings.NewReader("list\nspawn Bob\n\nlist\n")
	if err := c.Run(context.Background(), in); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, `{"agents":[]}`) {
		t.Errorf("empty list missing:\n%s", text)
	}
	if !strings.Contains(text, `"name":"Bob"`) {
		t.Errorf("spawn output missing:\n%s", text)
	}
	if n := strings.Count(text, "> "); n != 5 {
		t.Errorf("prompts = %d, want 5:\n%s", n, text)
	}
}

func TestConsole_StoppedEngine(t *testing.T) {
	c, svc := newConsole(t, &bytes.Buffer{})
	svc.Stop()

	if _, err := c.Do(context.Background(), "list"); err == nil {
		t.Fatal("expected error after engine stop")
	}
}
