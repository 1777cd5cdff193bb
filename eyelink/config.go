package eyelink

import (
	"errors"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/cogbench/go-eyelink/logger"
)

// Data file name limits imposed by the device's legacy 8.3 file system.
const (
	maxDataFileStem = 8
	maxDataFileExt  = 4 // dot included
)

// Config represents the configuration parameters for a tracker session.
type Config struct {
	// width and height specify the display resolution in pixels.
	width  int
	height int

	// dataFile is the name of the data file recorded on the tracker host.
	// The stem is limited to 8 characters and the extension to 4.
	// Defaults to "default.edf".
	dataFile string

	// saccadeVelocityThreshold is the velocity threshold used for saccade
	// detection, in degrees per second. Only sent to trackers that do not
	// ship a parser configuration (version < 2).
	// Defaults to 35.
	saccadeVelocityThreshold int

	// saccadeAccelThreshold is the acceleration threshold used for
	// saccade detection, in degrees per second squared. Only sent to
	// trackers with version < 2.
	// Defaults to 9500.
	saccadeAccelThreshold int

	// foreground and background are the calibration screen colors.
	// Defaults to white on black.
	foreground color.RGBA
	background color.RGBA

	// targetSize is the radius of the calibration target in pixels.
	// Defaults to 16.
	targetSize int

	// beep selects whether calibration targets are announced with a tone.
	// Defaults to true.
	beep bool

	// startRetryCount bounds the number of start-recording attempts
	// before the session gives up with ErrRecordingStart.
	// Defaults to 100 attempts.
	startRetryCount int

	// startRetryInterval is the delay between start-recording attempts.
	// Defaults to 100ms.
	startRetryInterval time.Duration

	// blockStartTimeout bounds the wait for the device's block-start
	// signal after a start command.
	// Defaults to 100ms.
	blockStartTimeout time.Duration

	// realtimeDelay is the settle delay passed to BeginRealTimeMode.
	// Defaults to 100ms.
	realtimeDelay time.Duration

	// driftSettleDelay is the settle delay after entering drift-correction
	// mode. Defaults to 50ms.
	driftSettleDelay time.Duration

	// stopSettleDelay is the settle delay after stopping a recording.
	// Defaults to 500ms.
	stopSettleDelay time.Duration

	// closeSettleDelay is the settle delay between the teardown steps in
	// Close. Defaults to 100ms.
	closeSettleDelay time.Duration

	// keyboard is the operator cancel-key source polled during
	// fixation-triggered drift correction. Optional.
	keyboard Keyboard

	// logger provides a logger instance for session events and errors.
	logger logger.Logger
}

// NewConfig creates a tracker session configuration for the given display
// resolution and optional functional options.
//
// It initializes a Config with default values and then applies the provided
// options. See the documentation for Option and the various WithXXX
// functions for available configuration options.
//
// Returns a pointer to the initialized Config and an error if any occurred
// while applying the options.
func NewConfig(width, height int, opts ...Option) (*Config, error) {
	cfg := &Config{
		dataFile:                 "default.edf",
		saccadeVelocityThreshold: 35,
		saccadeAccelThreshold:    9500,
		foreground:               color.RGBA{R: 255, G: 255, B: 255, A: 255},
		background:               color.RGBA{A: 255},
		targetSize:               16,
		beep:                     true,
		startRetryCount:          100,
		startRetryInterval:       100 * time.Millisecond,
		blockStartTimeout:        100 * time.Millisecond,
		realtimeDelay:            100 * time.Millisecond,
		driftSettleDelay:         50 * time.Millisecond,
		stopSettleDelay:          500 * time.Millisecond,
		closeSettleDelay:         100 * time.Millisecond,
		logger:                   logger.GetLogger(),
	}

	if width <= 0 || height <= 0 {
		return cfg, errors.New("eyelink: resolution must be positive")
	}
	cfg.width = width
	cfg.height = height

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Resolution returns the configured display resolution.
func (cfg *Config) Resolution() (width, height int) {
	return cfg.width, cfg.height
}

// DataFile returns the configured data file name.
func (cfg *Config) DataFile() string {
	return cfg.dataFile
}

// TargetSize returns the calibration target radius in pixels.
func (cfg *Config) TargetSize() int {
	return cfg.targetSize
}

// Beep reports whether calibration targets are announced with a tone.
func (cfg *Config) Beep() bool {
	return cfg.beep
}

// Foreground returns the calibration screen foreground color.
func (cfg *Config) Foreground() color.RGBA {
	return cfg.foreground
}

// Background returns the calibration screen background color.
func (cfg *Config) Background() color.RGBA {
	return cfg.background
}

// center returns the display center, the default drift-correction target.
func (cfg *Config) center() Position {
	return Position{X: float64(cfg.width) / 2, Y: float64(cfg.height) / 2}
}

// validateDataFileName checks the device's 8.3 file name constraint.
func validateDataFileName(name string) error {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if len(stem) > maxDataFileStem || len(ext) > maxDataFileExt+1 {
		return ErrDataFileName
	}

	return nil
}

// Option represents a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc struct {
	name      string
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error { return o.applyFunc(cfg) }

func newOptFunc(name string, f func(*Config) error) *optFunc {
	return &optFunc{
		name:      name,
		applyFunc: f,
	}
}

// WithDataFile sets the name of the data file recorded on the tracker host.
// The name must satisfy the device's 8.3 constraint: a stem of at most 8
// characters and an extension of at most 4.
func WithDataFile(name string) Option {
	return newOptFunc("WithDataFile", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if err := validateDataFileName(name); err != nil {
			return err
		}
		cfg.dataFile = name

		return nil
	})
}

// WithSaccadeVelocityThreshold sets the saccade velocity threshold in
// degrees per second.
func WithSaccadeVelocityThreshold(threshold int) Option {
	return newOptFunc("WithSaccadeVelocityThreshold", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if threshold <= 0 {
			return errors.New("eyelink: saccade velocity threshold must be positive")
		}
		cfg.saccadeVelocityThreshold = threshold

		return nil
	})
}

// WithSaccadeAccelThreshold sets the saccade acceleration threshold in
// degrees per second squared.
func WithSaccadeAccelThreshold(threshold int) Option {
	return newOptFunc("WithSaccadeAccelThreshold", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if threshold <= 0 {
			return errors.New("eyelink: saccade acceleration threshold must be positive")
		}
		cfg.saccadeAccelThreshold = threshold

		return nil
	})
}

// WithColors sets the calibration screen foreground and background colors.
func WithColors(foreground, background color.RGBA) Option {
	return newOptFunc("WithColors", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		cfg.foreground = foreground
		cfg.background = background

		return nil
	})
}

// WithTargetSize sets the calibration target radius in pixels.
func WithTargetSize(size int) Option {
	return newOptFunc("WithTargetSize", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if size <= 0 {
			return errors.New("eyelink: target size must be positive")
		}
		cfg.targetSize = size

		return nil
	})
}

// WithBeep selects whether calibration targets are announced with a tone.
func WithBeep(beep bool) Option {
	return newOptFunc("WithBeep", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		cfg.beep = beep

		return nil
	})
}

// WithStartRetry sets the start-recording retry budget: count attempts with
// interval between them.
func WithStartRetry(count int, interval time.Duration) Option {
	return newOptFunc("WithStartRetry", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if count < 1 {
			return errors.New("eyelink: start retry count must be at least 1")
		}
		if interval < 0 {
			return errors.New("eyelink: start retry interval must not be negative")
		}
		cfg.startRetryCount = count
		cfg.startRetryInterval = interval

		return nil
	})
}

// WithBlockStartTimeout bounds the wait for the device's block-start signal.
func WithBlockStartTimeout(timeout time.Duration) Option {
	return newOptFunc("WithBlockStartTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if timeout <= 0 {
			return errors.New("eyelink: block start timeout must be positive")
		}
		cfg.blockStartTimeout = timeout

		return nil
	})
}

// WithSettleDelays overrides the realtime-mode, drift-correction, stop and
// close settle delays. Cosmetic in a pure-software setup; tests shorten
// them to keep runs fast.
func WithSettleDelays(realtime, drift, stop, closeDelay time.Duration) Option {
	return newOptFunc("WithSettleDelays", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if realtime < 0 || drift < 0 || stop < 0 || closeDelay < 0 {
			return errors.New("eyelink: settle delays must not be negative")
		}
		cfg.realtimeDelay = realtime
		cfg.driftSettleDelay = drift
		cfg.stopSettleDelay = stop
		cfg.closeSettleDelay = closeDelay

		return nil
	})
}

// WithKeyboard sets the operator cancel-key source polled during
// fixation-triggered drift correction.
func WithKeyboard(kb Keyboard) Option {
	return newOptFunc("WithKeyboard", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		cfg.keyboard = kb

		return nil
	})
}

// WithLogger sets the logger for the session.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if l == nil {
			return errors.New("eyelink: logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
