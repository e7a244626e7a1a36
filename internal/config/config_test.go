package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.Port != DefaultPort || cfg.Network.Token != DefaultToken {
		t.Errorf("network = %+v", cfg.Network)
	}
	if cfg.Network.MaxFrameBytes != 1<<20 {
		t.Errorf("max frame = %d", cfg.Network.MaxFrameBytes)
	}
	if cfg.Agent.Attributes.InteractionRange != 3.0 || cfg.Agent.Attributes.MaxHealth != 20 {
		t.Errorf("attributes = %+v", cfg.Agent.Attributes)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
network:
  port: 20000
  token: secret
  keep_alive: 10s
world:
  difficulty: peaceful
  regions:
    - name: overworld
      ground: 63
      features:
        - block: stone
          from: {x: 2, y: 64, z: -1}
          to: {x: 2, y: 65, z: 1}
  fixtures:
    - kind: player
      name: Steve
      x: 4.5
      y: 64
      z: 0.5
      game_mode: creative
agent:
  move_speed: 2.5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.Port != 20000 || cfg.Network.Token != "secret" || cfg.Network.KeepAlive != 10*time.Second {
		t.Errorf("network = %+v", cfg.Network)
	}
	if cfg.Network.MaxConnections != 64 {
		t.Error("fields absent from the file should keep defaults")
	}
	if cfg.World.Difficulty != "peaceful" || len(cfg.World.Fixtures) != 1 {
		t.Errorf("world = %+v", cfg.World)
	}
	if cfg.Agent.MoveSpeed != 2.5 {
		t.Errorf("move speed = %v", cfg.Agent.MoveSpeed)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AVATAR_PORT", "25000")
	t.Setenv("AVATAR_TOKEN", "from-env")
	t.Setenv("AVATAR_ENABLED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.Port != 25000 || cfg.Network.Token != "from-env" || cfg.Network.Enabled {
		t.Errorf("network = %+v", cfg.Network)
	}

	t.Setenv("AVATAR_PORT", "abc")
	if _, err := Load(""); err == nil {
		t.Error("non-numeric AVATAR_PORT should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Network.Port = 80 }, "network.port"},
		{"port too high", func(c *Config) { c.Network.Port = 70000 }, "network.port"},
		{"empty token", func(c *Config) { c.Network.Token = "" }, "network.token"},
		{"empty token when disabled", func(c *Config) { c.Network.Token = ""; c.Network.Enabled = false }, ""},
		{"move speed", func(c *Config) { c.Agent.MoveSpeed = 9 }, "agent.move_speed"},
		{"difficulty", func(c *Config) { c.World.Difficulty = "nightmare" }, "world.difficulty"},
		{"duplicate region", func(c *Config) {
			c.World.Regions = append(c.World.Regions, RegionConfig{Name: "overworld"})
		}, "duplicate region"},
		{"unknown block", func(c *Config) {
			c.World.Regions[0].Features = []FeatureConfig{{Block: "lava"}}
		}, "unknown block"},
		{"fixture kind", func(c *Config) {
			c.World.Fixtures = []FixtureConfig{{Kind: "agent", Name: "x"}}
		}, "unsupported kind"},
		{"fixture region", func(c *Config) {
			c.World.Fixtures = []FixtureConfig{{Kind: "mob", Region: "nether"}}
		}, "unknown region"},
		{"storage path", func(c *Config) { c.Storage.Driver = "sqlite" }, "storage.path"},
		{"storage driver", func(c *Config) { c.Storage.Driver = "redis" }, "storage.driver"},
		{"autosave descriptor", func(c *Config) { c.Storage.Autosave = "@every 5m" }, ""},
		{"autosave with seconds", func(c *Config) { c.Storage.Autosave = "0 */10 * * * *" }, ""},
		{"autosave garbage", func(c *Config) { c.Storage.Autosave = "every five minutes" }, "storage.autosave"},
		{"websocket without http", func(c *Config) { c.WebSocket.Enabled = true; c.HTTP.Enabled = false }, "websocket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNetworkAddress(t *testing.T) {
	n := NetworkConfig{Host: "0.0.0.0", Port: 19230}
	if got := n.Address(); got != "0.0.0.0:19230" {
		t.Errorf("Address() = %q", got)
	}
}
