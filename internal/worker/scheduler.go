package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/m04kA/telegram-send/pkg/types"
)

// Scheduler планировщик отложенной отправки (--at)
type Scheduler struct {
	location *time.Location
	logger   Logger
	now      func() time.Time
}

// NewScheduler создает новый экземпляр планировщика для часового пояса loc
func NewScheduler(loc *time.Location, logger Logger) *Scheduler {
	return &Scheduler{
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// RunAt выполняет job один раз в момент at и ждет завершения
// Время в прошлом означает немедленный запуск
func (s *Scheduler) RunAt(ctx context.Context, at time.Time, job Job) error {
	scheduler := gocron.NewScheduler(s.location)
	done := make(chan error, 1)

	run := func() {
		s.logger.Info("Executing scheduled send")
		done <- job(ctx)
	}

	var err error
	if at.After(s.now()) {
		_, err = scheduler.Every(1).StartAt(at).LimitRunsTo(1).Do(run)
		s.logger.Info("Scheduled send for %s", at.Format(time.RFC3339))
	} else {
		_, err = scheduler.Every(1).StartImmediately().LimitRunsTo(1).Do(run)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchedule, err)
	}

	scheduler.StartAsync()
	defer scheduler.Stop()

	select {
	case <-ctx.Done():
		s.logger.Warn("Scheduled send cancelled")
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// ParseAt разбирает время запуска: "15:04" (ближайшее такое время),
// "2006-01-02 15:04" или RFC3339
func ParseAt(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	loc := now.Location()

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04", value, loc); err == nil {
		return t, nil
	}

	clock, err := types.NewTimeStringFromString(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return clock.Next(now)
}
