package field

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-dic/dic/correlate"
	"github.com/cwbudde/algo-dic/dic/grid"
	"github.com/cwbudde/algo-dic/dic/subpixel"
	"github.com/cwbudde/algo-dic/dic/track"
	"github.com/cwbudde/algo-dic/frame"
)

// ErrInvalidArgument is matched by every parameter error of the field
// computation. The underlying sentinel of the failing package is wrapped as
// well.
var ErrInvalidArgument = errors.New("field: invalid argument")

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}

// Processor computes displacement fields with a fixed configuration. It holds
// no per-computation state and is safe for concurrent use.
type Processor struct {
	cfg    Config
	params track.Params
	log    *slog.Logger
	pool   *correlate.Pool
}

// NewProcessor validates the configuration and returns a processor.
func NewProcessor(opts ...Option) (*Processor, error) {
	cfg := ApplyOptions(opts...)

	if !frame.ValidMethod(cfg.Aggregation) {
		return nil, invalid(fmt.Errorf("%w: %q", frame.ErrUnknownMethod, cfg.Aggregation))
	}
	rf, err := subpixel.ByName(cfg.Refiner)
	if err != nil {
		return nil, invalid(err)
	}
	if _, err := correlate.New(cfg.WindowSize); err != nil {
		return nil, invalid(err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Processor{
		cfg: cfg,
		params: track.Params{
			Refiner:       rf,
			Tolerance:     cfg.Tolerance,
			MaxIterations: cfg.MaxIterations,
			Strict:        cfg.Strict,
		},
		log:  cfg.Logger,
		pool: correlate.NewPool(),
	}, nil
}

// Config returns a copy of the processor configuration.
func (p *Processor) Config() Config {
	cfg := p.cfg
	cfg.Rows = append([]int(nil), p.cfg.Rows...)
	cfg.Cols = append([]int(nil), p.cfg.Cols...)
	return cfg
}

// Process reduces both frame stacks with the configured aggregation, computes
// the field between the reduced images and attaches the temporal contrast of
// the object stack.
func (p *Processor) Process(refStack, objStack frame.Stack) (*Field, error) {
	rh, rw, err := refStack.Shape()
	if err != nil {
		return nil, invalid(fmt.Errorf("reference stack: %w", err))
	}
	oh, ow, err := objStack.Shape()
	if err != nil {
		return nil, invalid(fmt.Errorf("object stack: %w", err))
	}
	if rh != oh || rw != ow {
		return nil, invalid(fmt.Errorf("%w: reference %dx%d, object %dx%d", frame.ErrShapeMismatch, rh, rw, oh, ow))
	}

	ref, err := frame.Reduce(refStack, p.cfg.Aggregation)
	if err != nil {
		return nil, invalid(err)
	}
	obj, err := frame.Reduce(objStack, p.cfg.Aggregation)
	if err != nil {
		return nil, invalid(err)
	}
	contrast, err := frame.TemporalContrast(objStack)
	if err != nil {
		return nil, invalid(err)
	}

	f, err := p.compute(ref, obj)
	if err != nil {
		return nil, err
	}
	f.Contrast = contrast
	return f, nil
}

// Compute computes the field between two already reduced images. Both are
// copied before the workers start, so the caller may reuse them immediately.
func (p *Processor) Compute(ref, obj *frame.Image) (*Field, error) {
	if ref == nil || obj == nil {
		return nil, invalid(frame.ErrEmptyStack)
	}
	if !ref.SameShape(obj) {
		return nil, invalid(fmt.Errorf("%w: reference %dx%d, object %dx%d",
			frame.ErrShapeMismatch, ref.Height, ref.Width, obj.Height, obj.Width))
	}
	if err := ref.CheckPix(); err != nil {
		return nil, invalid(fmt.Errorf("reference: %w", err))
	}
	if err := obj.CheckPix(); err != nil {
		return nil, invalid(fmt.Errorf("object: %w", err))
	}
	return p.compute(ref.Clone(), obj.Clone())
}

func (p *Processor) compute(ref, obj *frame.Image) (*Field, error) {
	g, err := p.plan(ref.Height, ref.Width)
	if err != nil {
		return nil, invalid(err)
	}

	start := time.Now()
	f := newField(g.Rows, g.Cols)
	workers := p.dispatch(ref, obj, g, f)

	if p.log.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{
			"rows", len(g.Rows),
			"cols", len(g.Cols),
			"window", p.cfg.WindowSize,
			"workers", workers,
			"refiner", p.params.Refiner.Name(),
			"elapsed", time.Since(start),
			"failed", f.Failed(),
		}
		attrs = append(attrs, statusAttrs(f.StatusCounts())...)
		p.log.Debug("field: computed", attrs...)
	}
	return f, nil
}

// statusAttrs lists the non-zero failure counts as key/value pairs in status
// order.
func statusAttrs(counts map[track.Status]int) []any {
	var attrs []any
	for s := track.StatusOK + 1; s <= track.StatusFault; s++ {
		if n := counts[s]; n > 0 {
			attrs = append(attrs, s.String(), n)
		}
	}
	return attrs
}

func (p *Processor) plan(h, w int) (grid.Grid, error) {
	if len(p.cfg.Rows) > 0 && len(p.cfg.Cols) > 0 {
		return grid.Custom(p.cfg.Rows, p.cfg.Cols), nil
	}
	return grid.Plan(h, w, p.cfg.WindowSize)
}
