package agent

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
	"avatar-server/pkg/api"
	"avatar-server/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Caller - то, через что бот говорит с сервером (network.Client)
type Caller interface {
	Call(ctx context.Context, method string, params map[string]any) (handlers.Result, error)
}

// DefaultPollInterval - как часто бот спрашивает, дошел ли агент
const DefaultPollInterval = 100 * time.Millisecond

// Bot - внешний клиент без интерфейса (Headless Agent).
// Подключается к серверу так же, как любой другой клиент, и водит своего агента
// по кругу между точками маршрута.
//
// Жизненный цикл:
//  1. NewBot -> клиент уже подключен и прошел auth.
//  2. Run -> agent.spawn (существующий агент с тем же именем подхватывается).
//  3. Для каждой точки: agent.moveTo, затем perception.self до isNavigating=false.
//  4. Недостижимую точку (PATH_NOT_FOUND) пропускаем и идем к следующей.
type Bot struct {
	Name      string
	Waypoints []domain.Vec3

	// MaxLaps - сколько кругов пройти (0 - пока не отменят ctx)
	MaxLaps int
	Poll    time.Duration

	client Caller
	log    *logrus.Entry
}

func NewBot(name string, client Caller, waypoints []domain.Vec3) *Bot {
	return &Bot{
		Name:      name,
		Waypoints: waypoints,
		Poll:      DefaultPollInterval,
		client:    client,
		log:       logger.Log.WithFields(logrus.Fields{"component": "bot", "agent": name}),
	}
}

// Run водит агента до отмены ctx или до MaxLaps кругов
func (b *Bot) Run(ctx context.Context) error {
	if len(b.Waypoints) == 0 {
		return errors.New("bot: no waypoints")
	}
	if err := b.spawn(ctx); err != nil {
		return err
	}

	for lap := 1; b.MaxLaps == 0 || lap <= b.MaxLaps; lap++ {
		reached := 0
		for _, wp := range b.Waypoints {
			ok, err := b.walkTo(ctx, wp)
			if err != nil {
				return err
			}
			if ok {
				reached++
			}
		}
		b.log.WithFields(logrus.Fields{"lap": lap, "reached": reached}).Info("Patrol lap finished")
		if reached == 0 {
			return fmt.Errorf("bot %s: no waypoint is reachable", b.Name)
		}
	}
	return nil
}

func (b *Bot) spawn(ctx context.Context) error {
	res, err := b.client.Call(ctx, api.MethodSpawn, map[string]any{"name": b.Name})
	if err != nil {
		return err
	}
	switch {
	case res.Success():
		b.log.WithField("uuid", res.Data()["uuid"]).Info("Agent spawned")
	case res.Code() == handlers.CodeAgentExists:
		b.log.Info("Taking over existing agent")
	default:
		return fmt.Errorf("spawn %s: %s", b.Name, res.Readable())
	}
	return nil
}

// walkTo возвращает false, если точка недостижима
func (b *Bot) walkTo(ctx context.Context, wp domain.Vec3) (bool, error) {
	res, err := b.client.Call(ctx, api.MethodMoveTo, map[string]any{
		"agent": b.Name,
		"x":     wp.X,
		"y":     wp.Y,
		"z":     wp.Z,
	})
	if err != nil {
		return false, err
	}
	if !res.Success() {
		if res.Code() == handlers.CodePathNotFound {
			b.log.WithField("waypoint", wp.String()).Warn("Waypoint unreachable, skipping")
			return false, nil
		}
		return false, fmt.Errorf("moveTo %s: %s", wp, res.Readable())
	}

	ticker := time.NewTicker(b.Poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}

		self, err := b.client.Call(ctx, api.MethodPerceptionSelf, map[string]any{"agent": b.Name})
		if err != nil {
			return false, err
		}
		if !self.Success() {
			// Агента убили или распустили, пока он шел
			return false, fmt.Errorf("perception %s: %s", b.Name, self.Readable())
		}
		if navigating, _ := self.Data()["isNavigating"].(bool); !navigating {
			b.log.WithField("waypoint", wp.String()).Debug("Waypoint reached")
			return true, nil
		}
	}
}
