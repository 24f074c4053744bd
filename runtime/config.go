package runtime

import (
	"time"

	"github.com/rs/zerolog"
)

// Config tunes runtime behavior. The zero value is not usable; start
// from DefaultConfig and chain With* methods.
type Config struct {
	// TickRate is the interval between logic ticks
	TickRate time.Duration

	// FrameRate is the interval between renders
	FrameRate time.Duration

	// MaxMessagesPerTick bounds message processing per tick so a
	// message storm cannot starve rendering
	MaxMessagesPerTick int

	// CaptureHistory enables frame history on virtual backends
	CaptureHistory bool

	// HistoryCapacity bounds the retained frame history
	HistoryCapacity int

	// ChannelCapacity sizes the message and error channels
	ChannelCapacity int

	// Logger receives runtime diagnostics; defaults to a no-op
	Logger zerolog.Logger
}

// DefaultConfig returns the standard tuning
func DefaultConfig() Config {
	return Config{
		TickRate:           50 * time.Millisecond,
		FrameRate:          16 * time.Millisecond,
		MaxMessagesPerTick: 100,
		HistoryCapacity:    10,
		ChannelCapacity:    256,
		Logger:             zerolog.Nop(),
	}
}

// WithTickRate sets the logic tick interval
func (c Config) WithTickRate(d time.Duration) Config {
	c.TickRate = d
	return c
}

// WithFrameRate sets the render interval
func (c Config) WithFrameRate(d time.Duration) Config {
	c.FrameRate = d
	return c
}

// WithMaxMessagesPerTick bounds per-tick message processing
func (c Config) WithMaxMessagesPerTick(n int) Config {
	c.MaxMessagesPerTick = n
	return c
}

// WithCaptureHistory enables frame history with the given capacity
func (c Config) WithCaptureHistory(capacity int) Config {
	c.CaptureHistory = true
	c.HistoryCapacity = capacity
	return c
}

// WithChannelCapacity sizes the message and error channels
func (c Config) WithChannelCapacity(n int) Config {
	c.ChannelCapacity = n
	return c
}

// WithLogger attaches a diagnostics logger
func (c Config) WithLogger(l zerolog.Logger) Config {
	c.Logger = l
	return c
}
