package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dkellner/cadence/pkg/core"
	"github.com/dkellner/cadence/pkg/validate"
)

// Config holds scheduler configuration.
type Config struct {
	PollInterval time.Duration
	Cron         cron.Schedule // overrides PollInterval when set
	Window       time.Duration
	Clock        func() time.Time
	Logger       *slog.Logger
	OnReminder   func(core.Reminder)
}

func defaultConfig() Config {
	return Config{
		PollInterval: time.Minute,
		Window:       2 * time.Hour,
		Clock:        time.Now,
		Logger:       slog.Default(),
	}
}

// Option configures a Scheduler.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// PollEvery sets the fixed poll cadence.
// Values are clamped to [MinPollInterval, MaxPollInterval].
func PollEvery(d time.Duration) Option {
	return optionFunc(func(c *Config) {
		c.PollInterval = validate.ClampPollInterval(d)
	})
}

// PollCron sets the poll cadence from a five-field cron expression.
func PollCron(expr string) Option {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		panic("invalid cron expression: " + err.Error())
	}
	return optionFunc(func(c *Config) {
		c.Cron = schedule
	})
}

// Window sets the forward expansion window for schedule instances.
// Values are clamped to (0, MaxWindow].
func Window(d time.Duration) Option {
	return optionFunc(func(c *Config) {
		c.Window = validate.ClampWindow(d)
	})
}

// WithClock injects a time source; tests use this for a fake clock.
func WithClock(fn func() time.Time) Option {
	return optionFunc(func(c *Config) {
		if fn != nil {
			c.Clock = fn
		}
	})
}

// WithLogger injects a logger.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	})
}

// OnReminder registers an in-process callback invoked synchronously from the
// poll body before the notification sink, e.g. to feed a UI pop-up queue.
func OnReminder(fn func(core.Reminder)) Option {
	return optionFunc(func(c *Config) {
		c.OnReminder = fn
	})
}
