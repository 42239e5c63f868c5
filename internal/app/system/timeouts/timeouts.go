// Package timeouts holds the deadlines handlers and stores put on MongoDB
// and other I/O through context.WithTimeout.
//
// Tiers:
//   - Ping: health checks
//   - Short: single-document reads and writes (get, status change, delete)
//   - Medium: paginated lists, stats aggregations, form submissions
//   - Long: the open-events feed, CSV exports, connecting at startup
//   - Batch: index and validator setup
//
// Values are set once at startup from the timeout_* settings; anything
// left at zero keeps its default.
package timeouts

import (
	"sync/atomic"
	"time"
)

// Config is one set of tier values.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

// Defaults are used for every tier that was never configured.
var Defaults = Config{
	Ping:   2 * time.Second,
	Short:  5 * time.Second,
	Medium: 10 * time.Second,
	Long:   30 * time.Second,
	Batch:  60 * time.Second,
}

var current atomic.Pointer[Config]

func init() { Reset() }

func Ping() time.Duration   { return current.Load().Ping }
func Short() time.Duration  { return current.Load().Short }
func Medium() time.Duration { return current.Load().Medium }
func Long() time.Duration   { return current.Load().Long }
func Batch() time.Duration  { return current.Load().Batch }

// Configure overrides the non-zero tiers of cfg and returns the values now
// in effect.
func Configure(cfg Config) Config {
	next := *current.Load()
	for _, p := range []struct {
		dst *time.Duration
		v   time.Duration
	}{
		{&next.Ping, cfg.Ping},
		{&next.Short, cfg.Short},
		{&next.Medium, cfg.Medium},
		{&next.Long, cfg.Long},
		{&next.Batch, cfg.Batch},
	} {
		if p.v > 0 {
			*p.dst = p.v
		}
	}
	current.Store(&next)
	return next
}

// Current returns the values in effect.
func Current() Config { return *current.Load() }

// Reset restores Defaults. Tests use it to undo Configure.
func Reset() {
	d := Defaults
	current.Store(&d)
}
