package config

import (
	"avatar-server/internal/domain"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort          = 19230
	DefaultToken         = "mineavatar"
	DefaultMaxFrameBytes = 1 << 20

	MinPort      = 1024
	MaxPort      = 65535
	MinMoveSpeed = 0.1
	MaxMoveSpeed = 5.0
)

// ScheduleParser разбирает расписания: 5 или 6 полей (секунды необязательны) и @descriptors
var ScheduleParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// Config - полная конфигурация процесса
type Config struct {
	Network   NetworkConfig   `yaml:"network"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	HTTP      HTTPConfig      `yaml:"http"`
	World     WorldConfig     `yaml:"world"`
	Agent     AgentConfig     `yaml:"agent"`
	Storage   StorageConfig   `yaml:"storage"`
	Console   ConsoleConfig   `yaml:"console"`
	Log       LogConfig       `yaml:"log"`
}

// NetworkConfig - TCP сервер для внешних клиентов
type NetworkConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Token          string        `yaml:"token"`
	MaxConnections int           `yaml:"max_connections"`
	MaxFrameBytes  int           `yaml:"max_frame_bytes"`
	OutboundQueue  int           `yaml:"outbound_queue"`
	KeepAlive      time.Duration `yaml:"keep_alive"`
}

// Address - host:port для net.Listen
func (n NetworkConfig) Address() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// WebSocketConfig - тот же протокол поверх websocket (монтируется в HTTP сервер)
type WebSocketConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// HTTPConfig - служебный HTTP: health, metrics, debug
type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	// Pprof монтирует /debug/pprof. Без авторизации, поэтому по умолчанию выключен.
	Pprof bool `yaml:"pprof"`
}

type WorldConfig struct {
	TickRateHz  int             `yaml:"tick_rate_hz"`
	Difficulty  string          `yaml:"difficulty"`
	Spawn       PointConfig     `yaml:"spawn"`
	ChatHistory int             `yaml:"chat_history"`
	Regions     []RegionConfig  `yaml:"regions"`
	Fixtures    []FixtureConfig `yaml:"fixtures"`
}

type PointConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

func (p PointConfig) Block() domain.BlockPos {
	return domain.BlockPos{X: p.X, Y: p.Y, Z: p.Z}
}

// RegionConfig - измерение: плоский ландшафт и ручные постройки поверх него
type RegionConfig struct {
	Name     string          `yaml:"name"`
	Ground   int             `yaml:"ground"`
	Features []FeatureConfig `yaml:"features"`
}

// FeatureConfig заливает параллелепипед одним блоком
type FeatureConfig struct {
	Block string      `yaml:"block"`
	From  PointConfig `yaml:"from"`
	To    PointConfig `yaml:"to"`
}

// FixtureConfig - сущность, которая появляется в мире при старте
type FixtureConfig struct {
	Kind      string  `yaml:"kind"` // player, mob, item
	Name      string  `yaml:"name"`
	Region    string  `yaml:"region"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Z         float64 `yaml:"z"`
	GameMode  string  `yaml:"game_mode"`
	MaxHealth float64 `yaml:"max_health"`
}

type AgentConfig struct {
	// MoveSpeed - множитель скорости навигации агентов
	MoveSpeed  float64           `yaml:"move_speed"`
	Attributes domain.Attributes `yaml:"attributes"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // none, file, sqlite
	Path   string `yaml:"path"`
	// Autosave - расписание cron ("@every 5m", "0 */10 * * * *"); пусто - только при остановке
	Autosave string `yaml:"autosave"`
}

type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default возвращает конфиг, с которым сервер работает без файла
func Default() Config {
	return Config{
		Network: NetworkConfig{
			Enabled:        true,
			Host:           "127.0.0.1",
			Port:           DefaultPort,
			Token:          DefaultToken,
			MaxConnections: 64,
			MaxFrameBytes:  DefaultMaxFrameBytes,
			OutboundQueue:  256,
			KeepAlive:      30 * time.Second,
		},
		WebSocket: WebSocketConfig{Enabled: false, Path: "/ws"},
		HTTP:      HTTPConfig{Enabled: true, Addr: "127.0.0.1:19231"},
		World: WorldConfig{
			TickRateHz:  domain.DefaultTickRate,
			Difficulty:  "normal",
			Spawn:       PointConfig{X: 0, Y: domain.GroundLevel + 1, Z: 0},
			ChatHistory: 100,
			Regions:     []RegionConfig{{Name: domain.DefaultRegion, Ground: domain.GroundLevel}},
		},
		Agent: AgentConfig{
			MoveSpeed:  1.0,
			Attributes: domain.DefaultAttributes(),
		},
		Storage: StorageConfig{Driver: "none"},
		Console: ConsoleConfig{Enabled: true},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load читает YAML поверх значений по умолчанию.
// Нет файла - работаем на дефолтах. Переменные окружения применяются последними.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// дефолты
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("AVATAR_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AVATAR_PORT: %w", err)
		}
		c.Network.Port = port
	}
	if v, ok := os.LookupEnv("AVATAR_TOKEN"); ok {
		c.Network.Token = v
	}
	if v, ok := os.LookupEnv("AVATAR_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AVATAR_ENABLED: %w", err)
		}
		c.Network.Enabled = enabled
	}
	if v, ok := os.LookupEnv("AVATAR_STORAGE_PATH"); ok {
		c.Storage.Path = v
	}
	return nil
}

// Validate возвращает первую найденную ошибку
func (c Config) Validate() error {
	n := c.Network
	if n.Port < MinPort || n.Port > MaxPort {
		return fmt.Errorf("network.port %d out of range [%d, %d]", n.Port, MinPort, MaxPort)
	}
	if n.Enabled && n.Token == "" {
		return errors.New("network.token must not be empty")
	}
	if n.MaxFrameBytes <= 0 {
		return errors.New("network.max_frame_bytes must be positive")
	}
	if n.MaxConnections < 0 || n.OutboundQueue <= 0 {
		return errors.New("network.max_connections and network.outbound_queue must be positive")
	}

	if c.WebSocket.Enabled && !c.HTTP.Enabled {
		return errors.New("websocket requires http.enabled")
	}
	if c.WebSocket.Enabled && !strings.HasPrefix(c.WebSocket.Path, "/") {
		return fmt.Errorf("websocket.path %q must start with /", c.WebSocket.Path)
	}

	if err := c.World.validate(); err != nil {
		return err
	}

	a := c.Agent
	if a.MoveSpeed < MinMoveSpeed || a.MoveSpeed > MaxMoveSpeed {
		return fmt.Errorf("agent.move_speed %.2f out of range [%.1f, %.1f]", a.MoveSpeed, MinMoveSpeed, MaxMoveSpeed)
	}
	if a.Attributes.MaxHealth <= 0 || a.Attributes.InteractionRange <= 0 || a.Attributes.FollowRange <= 0 {
		return errors.New("agent.attributes: max_health, interaction_range and follow_range must be positive")
	}

	switch c.Storage.Driver {
	case "", "none":
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if spec := strings.TrimSpace(c.Storage.Autosave); spec != "" {
		if _, err := ScheduleParser.Parse(spec); err != nil {
			return fmt.Errorf("storage.autosave: %w", err)
		}
	}
	return nil
}

func (w WorldConfig) validate() error {
	if w.TickRateHz < 1 || w.TickRateHz > 1000 {
		return fmt.Errorf("world.tick_rate_hz %d out of range [1, 1000]", w.TickRateHz)
	}
	if _, ok := domain.ParseDifficulty(w.Difficulty); !ok {
		return fmt.Errorf("unknown world.difficulty %q", w.Difficulty)
	}
	if len(w.Regions) == 0 {
		return errors.New("world.regions must not be empty")
	}

	seen := make(map[string]bool)
	for _, r := range w.Regions {
		if r.Name == "" {
			return errors.New("world.regions: empty region name")
		}
		if seen[r.Name] {
			return fmt.Errorf("world.regions: duplicate region %q", r.Name)
		}
		seen[r.Name] = true
		for _, f := range r.Features {
			if _, ok := domain.ParseBlock(f.Block); !ok {
				return fmt.Errorf("region %q: unknown block %q", r.Name, f.Block)
			}
		}
	}

	for i, f := range w.Fixtures {
		if f.Region != "" && !seen[f.Region] {
			return fmt.Errorf("world.fixtures[%d]: unknown region %q", i, f.Region)
		}
		switch domain.ParseEntityKind(f.Kind) {
		case domain.KindPlayer:
			if f.GameMode != "" {
				if _, ok := domain.ParseGameMode(f.GameMode); !ok {
					return fmt.Errorf("world.fixtures[%d]: unknown game_mode %q", i, f.GameMode)
				}
			}
		case domain.KindMob, domain.KindItem:
		default:
			return fmt.Errorf("world.fixtures[%d]: unsupported kind %q", i, f.Kind)
		}
	}
	return nil
}
