package field

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/cwbudde/algo-dic/dic/subpixel"
	"github.com/cwbudde/algo-dic/dic/track"
	"github.com/cwbudde/algo-dic/frame"
)

// DefaultWindowSize is the default interrogation window edge length.
const DefaultWindowSize = 64

// Config holds the parameters of a field computation.
type Config struct {
	// WindowSize is the interrogation window edge length M. It must be even
	// and at least 4.
	WindowSize int
	// Rows and Cols are explicit window centers. When both are set the grid
	// planner is bypassed.
	Rows []int
	Cols []int
	// Workers bounds the number of concurrently processed windows.
	Workers int
	// Aggregation names the frame reduction: "mean" or "median".
	Aggregation string
	// Refiner names the sub-pixel strategy: "quadratic", "chebyshev" or
	// "legacy-3x3".
	Refiner       string
	Tolerance     float64
	MaxIterations int
	// Strict zeroes windows whose sub-pixel refinement did not converge.
	Strict bool
	Logger *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns 64×64 windows, one worker per CPU, mean aggregation
// and Chebyshev refinement with tolerance 1e-3 and ten iterations.
func DefaultConfig() Config {
	return Config{
		WindowSize:    DefaultWindowSize,
		Workers:       runtime.GOMAXPROCS(0),
		Aggregation:   frame.MethodMean,
		Refiner:       subpixel.NameChebyshev,
		Tolerance:     track.DefaultTolerance,
		MaxIterations: track.DefaultMaxIterations,
		Logger:        slog.Default(),
	}
}

// WithWindowSize sets the window edge length.
func WithWindowSize(m int) Option {
	return func(cfg *Config) {
		if m > 0 {
			cfg.WindowSize = m
		}
	}
}

// WithCenters sets explicit row and column window centers. The slices are
// copied. Empty slices leave the planner in charge.
func WithCenters(rows, cols []int) Option {
	return func(cfg *Config) {
		if len(rows) > 0 && len(cols) > 0 {
			cfg.Rows = append([]int(nil), rows...)
			cfg.Cols = append([]int(nil), cols...)
		}
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.Workers = n
		}
	}
}

// WithAggregation sets the frame reduction method.
func WithAggregation(method string) Option {
	return func(cfg *Config) {
		cfg.Aggregation = method
	}
}

// WithRefiner sets the sub-pixel strategy by name.
func WithRefiner(name string) Option {
	return func(cfg *Config) {
		cfg.Refiner = name
	}
}

// WithTolerance sets the sub-pixel convergence tolerance.
func WithTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol >= 0 && !math.IsInf(tol, 0) {
			cfg.Tolerance = tol
		}
	}
}

// WithMaxIterations sets the sub-pixel iteration budget.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithStrictConvergence zeroes displacement and correlation of windows whose
// sub-pixel refinement did not converge.
func WithStrictConvergence(strict bool) Option {
	return func(cfg *Config) {
		cfg.Strict = strict
	}
}

// WithLogger sets the logger for per-field summaries and task faults.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
