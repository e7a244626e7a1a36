package engine

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
	"avatar-server/internal/infrastructure/storage"
	"avatar-server/internal/systems"
	"avatar-server/pkg/logger"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrStopped        = errors.New("engine: stopped")
	ErrAlreadyRunning = errors.New("engine: already running")
)

// TickObserver получает статистику после каждого тика (метрики)
type TickObserver interface {
	ObserveTick(elapsed time.Duration, queueDepth, agents int)
}

// Service владеет миром. Все чтения и изменения мира происходят в горутине Run:
// задачи из очереди выполняются по порядку поступления между тиками.
type Service struct {
	cfg      Config
	world    *domain.GameWorld
	registry *handlers.Registry

	tasks    *TaskQueue
	chat     *ChatLog
	observer TickObserver

	roster    storage.RosterStore
	rosterMu  sync.Mutex
	savedTick int64

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	stopped  atomic.Bool
}

func NewService(cfg Config, world *domain.GameWorld, registry *handlers.Registry) *Service {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = domain.DefaultTickRate
	}
	s := &Service{
		cfg:      cfg,
		world:    world,
		registry: registry,
		tasks:    NewTaskQueue(),
		chat:     NewChatLog(cfg.ChatHistory),
		roster:   storage.NopStore{},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	world.Chat = s.chat.Append
	return s
}

// SetRoster подключает хранилище агентов. Вызывать до Run.
func (s *Service) SetRoster(store storage.RosterStore) {
	if store != nil {
		s.roster = store
	}
}

// SetObserver подключает метрики тиков. Вызывать до Run.
func (s *Service) SetObserver(o TickObserver) {
	s.observer = o
}

func (s *Service) Registry() *handlers.Registry { return s.registry }
func (s *Service) Chat() *ChatLog               { return s.chat }
func (s *Service) QueueDepth() int              { return s.tasks.Len() }

// Execute ставит задачу в очередь потока симуляции и сразу возвращается
func (s *Service) Execute(t Task) error {
	if s.stopped.Load() || !s.tasks.Push(t) {
		return ErrStopped
	}
	return nil
}

// Submit выполняет метод реестра в потоке симуляции и отдает результат в reply.
// reply вызывается из потока симуляции, поэтому не должен блокировать.
func (s *Service) Submit(method string, params handlers.Params, source string, reply func(handlers.Result)) {
	err := s.Execute(func(w *domain.GameWorld) {
		reply(s.registry.Dispatch(method, handlers.NewContext(w, source), params))
	})
	if err != nil {
		reply(handlers.Fail(handlers.CodeInternalError, "Simulation is not running"))
	}
}

// Call выполняет задачу в потоке симуляции и ждет ее завершения
func (s *Service) Call(ctx context.Context, t Task) error {
	finished := make(chan struct{})
	if err := s.Execute(func(w *domain.GameWorld) {
		defer close(finished)
		t(w)
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		// Цикл завершился: задача либо выполнена при остановке, либо потеряна
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Run запускает цикл симуляции и блокируется до Stop или отмены ctx
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	s.restoreRoster()

	interval := time.Second / time.Duration(s.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"tick_rate": s.cfg.TickRateHz,
		"regions":   len(s.world.Regions),
	}).Info("Simulation loop started")

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		case <-s.stop:
			s.shutdown()
			return nil
		case <-s.tasks.Wake():
			s.runTasks()
		case <-ticker.C:
			s.runTasks()
			s.Tick()
		}
	}
}

// Stop останавливает цикл и ждет сохранения ростера. Повторный вызов безопасен.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		close(s.stop)
	})
	if s.running.Load() {
		<-s.done
	}
}

// Tick продвигает мир на один тик. Вызывается из Run; тесты зовут напрямую.
func (s *Service) Tick() {
	start := time.Now()
	w := s.world
	w.Tick++

	for _, region := range w.Regions {
		var expired []*domain.Entity
		for _, e := range region.Entities {
			systems.UpdateLook(e)
			systems.StepNavigation(e)
			systems.ApplyPhysics(e, region.Terrain)
			if systems.TickVitals(e) {
				expired = append(expired, e)
			}
		}
		for _, e := range expired {
			region.Remove(e.ID)
			logger.Log.WithFields(logrus.Fields{
				"component": "engine",
				"entity":    e.Name,
				"kind":      e.Kind.String(),
				"tick":      w.Tick,
			}).Info("Dead entity removed")
		}
	}

	if s.observer != nil {
		s.observer.ObserveTick(time.Since(start), s.tasks.Len(), len(w.Agents()))
	}
}

func (s *Service) runTasks() {
	for _, t := range s.tasks.Drain() {
		s.runTask(t)
	}
}

func (s *Service) runTask(t Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "engine",
				"panic":     fmt.Sprint(r),
				"stack":     string(debug.Stack()),
			}).Error("Task panicked")
		}
	}()
	t(s.world)
}

func (s *Service) shutdown() {
	s.stopped.Store(true)
	// После Close очередь больше не растет, поэтому последний Drain
	// выполняет все принятые задачи: их ждут ответы
	s.tasks.Close()
	s.runTasks()
	s.saveRoster()

	logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"tick":      s.world.Tick,
	}).Info("Simulation loop stopped")
}

// restoreRoster возвращает агентов, сохраненных при прошлой остановке
func (s *Service) restoreRoster() {
	snapshot, err := s.roster.Load()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load agent roster")
		return
	}

	restored := 0
	for _, rec := range snapshot.Agents {
		if s.world.FindEntity(rec.ID) != nil {
			continue
		}
		e := rec.Restore(s.world.AgentDefaults)
		s.world.AddEntity(rec.Region, e)
		restored++
	}
	if restored > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "engine",
			"agents":    restored,
		}).Info("Agent roster restored")
	}
}

// SaveRoster сохраняет агентов, не дожидаясь остановки (автосохранение).
// Снимок берется в потоке симуляции, запись на диск идет в вызывающей горутине.
func (s *Service) SaveRoster(ctx context.Context) error {
	var snapshot domain.RosterSnapshot
	if err := s.Call(ctx, func(*domain.GameWorld) {
		snapshot = s.rosterSnapshot()
	}); err != nil {
		return err
	}
	return s.persistRoster(snapshot)
}

func (s *Service) saveRoster() {
	if err := s.persistRoster(s.rosterSnapshot()); err != nil {
		logger.Log.WithError(err).Error("Failed to save agent roster")
	}
}

func (s *Service) rosterSnapshot() domain.RosterSnapshot {
	agents := s.world.Agents()
	snapshot := domain.RosterSnapshot{
		Tick:   s.world.Tick,
		Agents: make([]domain.AgentRecord, 0, len(agents)),
	}
	for _, a := range agents {
		if a.IsAlive() {
			snapshot.Agents = append(snapshot.Agents, domain.RecordOf(a))
		}
	}
	return snapshot
}

func (s *Service) persistRoster(snapshot domain.RosterSnapshot) error {
	s.rosterMu.Lock()
	defer s.rosterMu.Unlock()

	// Автосохранение могло взять снимок раньше финального: старый не пишем поверх нового
	if snapshot.Tick < s.savedTick {
		return nil
	}
	if err := s.roster.Save(snapshot); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	s.savedTick = snapshot.Tick
	logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"agents":    len(snapshot.Agents),
		"tick":      snapshot.Tick,
	}).Debug("Agent roster saved")
	return nil
}
