package agent

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine"
	"avatar-server/internal/engine/handlers"
	"avatar-server/internal/engine/handlers/actions"
	"avatar-server/internal/network"
	"avatar-server/pkg/api"
	"avatar-server/pkg/logger"
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

// scriptedCaller отвечает по имени метода и запоминает вызовы
type scriptedCaller struct {
	replies map[string]handlers.Result
	calls   []string
}

func (s *scriptedCaller) Call(_ context.Context, method string, _ map[string]any) (handlers.Result, error) {
	s.calls = append(s.calls, method)
	if r, ok := s.replies[method]; ok {
		return r, nil
	}
	return handlers.Fail(handlers.CodeMethodNotFound, method), nil
}

func TestBot_AllWaypointsUnreachable(t *testing.T) {
	caller := &scriptedCaller{replies: map[string]handlers.Result{
		api.MethodSpawn:  handlers.Fail(handlers.CodeAgentExists, "exists"),
		api.MethodMoveTo: handlers.Fail(handlers.CodePathNotFound, "no path"),
	}}
	bot := NewBot("Bob", caller, []domain.Vec3{{X: 1, Y: 64, Z: 1}, {X: 2, Y: 64, Z: 2}})

	err := bot.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no waypoint is reachable") {
		t.Fatalf("err = %v", err)
	}
	want := []string{api.MethodSpawn, api.MethodMoveTo, api.MethodMoveTo}
	if strings.Join(caller.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", caller.calls, want)
	}
}

func TestBot_SpawnFailureStops(t *testing.T) {
	caller := &scriptedCaller{replies: map[string]handlers.Result{
		api.MethodSpawn: handlers.Fail(handlers.CodeMissingParam, "Parameter 'name' is required"),
	}}
	bot := NewBot("", caller, []domain.Vec3{{X: 1, Y: 64, Z: 1}})

	if err := bot.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "MISSING_PARAM") {
		t.Fatalf("err = %v", err)
	}
}

func TestBot_NoWaypoints(t *testing.T) {
	if err := NewBot("Bob", &scriptedCaller{}, nil).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestBot_PatrolOverTCP(t *testing.T) {
	cfg := engine.NewConfig()
	cfg.TickRateHz = 50
	svc := engine.NewService(cfg, domain.NewGameWorld(), actions.NewRegistry())
	runErr := make(chan error, 1)
	go func() { runErr <- svc.Run(context.Background()) }()

	srv := network.NewServer(network.Options{Addr: "127.0.0.1:0", Token: "secret"}, svc, network.NewHub(), nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		srv.Stop()
		svc.Stop()
		<-runErr
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := network.Dial(ctx, srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()
	if err := client.Auth(ctx, "secret"); err != nil {
		t.Fatalf("Auth: %v", err)
	}

	bot := NewBot("Patrol", client, []domain.Vec3{{X: 3, Y: 64, Z: 0}, {X: 0, Y: 64, Z: 3}})
	bot.MaxLaps = 1
	bot.Poll = 20 * time.Millisecond
	if err := bot.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	self, err := client.Call(ctx, api.MethodPerceptionSelf, map[string]any{"agent": "Patrol"})
	if err != nil || !self.Success() {
		t.Fatalf("perception.self: %v %s", err, self.Readable())
	}
	pos, _ := self.Data()["position"].(map[string]any)
	x, _ := pos["x"].(float64)
	z, _ := pos["z"].(float64)
	if x < 0 || x > 1 || z < 3 || z > 4 {
		t.Errorf("final position = %v, want block (0, 64, 3)", pos)
	}
}
