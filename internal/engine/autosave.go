package engine

import (
	"avatar-server/internal/config"
	"avatar-server/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// autosaveTimeout - сколько ждать снимок от потока симуляции
const autosaveTimeout = 10 * time.Second

// Autosave сохраняет ростер по расписанию, чтобы падение процесса не теряло агентов
type Autosave struct {
	cron    *cron.Cron
	service *Service
	log     *logrus.Entry
}

// StartAutosave разбирает расписание и запускает планировщик.
// Запуски не перекрываются: следующий ждет, пока закончится предыдущий.
func StartAutosave(s *Service, spec string) (*Autosave, error) {
	a := &Autosave{
		service: s,
		log:     logger.Log.WithField("component", "autosave"),
	}
	a.cron = cron.New(
		cron.WithParser(config.ScheduleParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := a.cron.AddFunc(spec, a.save); err != nil {
		return nil, fmt.Errorf("autosave schedule %q: %w", spec, err)
	}
	a.cron.Start()

	a.log.WithField("schedule", spec).Info("Roster autosave scheduled")
	return a, nil
}

func (a *Autosave) save() {
	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()

	if err := a.service.SaveRoster(ctx); err != nil {
		a.log.WithError(err).Warn("Roster autosave failed")
	}
}

// Stop останавливает планировщик и ждет текущее сохранение
func (a *Autosave) Stop() {
	<-a.cron.Stop().Done()
}
