package convert

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"xfmr-converter/internal/cgmes"
	"xfmr-converter/internal/diagnostic"
	"xfmr-converter/internal/interpret"
	"xfmr-converter/internal/tapchanger"
)

// Option configures a Converter.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	resolver tapchanger.RegulatingResolver
	workers  int
}

// WithLogger logs every diagnostic through logger, tagged with the
// transformer id.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithResolver sets how tap changers are bound to regulating controls.
// The default is tapchanger.EnabledResolver.
func WithResolver(r tapchanger.RegulatingResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithWorkers bounds the number of transformers ConvertAll converts at
// once. Values below 1 mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Converter runs load, interpretation and assembly for one transformer at
// a time. It holds no per-transformer state and is safe for concurrent use.
type Converter struct {
	cfg  interpret.Config
	opts options
}

// NewConverter creates a Converter for the given alternatives.
func NewConverter(cfg interpret.Config, opts ...Option) *Converter {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}

	return &Converter{cfg: cfg, opts: o}
}

// Result is the outcome of converting one transformer. Exactly one of
// T2x, T3x and Err is set.
type Result struct {
	ID          string
	T2x         *T2x
	T3x         *T3x
	Diagnostics *diagnostic.Diagnostics
	Err         error
}

// Convert converts a single transformer. Failures are returned in the Result.
func (c *Converter) Convert(t *cgmes.Transformer) Result {
	res := Result{ID: t.ID, Diagnostics: &diagnostic.Diagnostics{}}

	var r diagnostic.Reporter = res.Diagnostics
	if c.opts.logger != nil {
		r = diagnostic.NewLogReporter(c.opts.logger.With(slog.String("transformer", t.ID)), res.Diagnostics)
	}

	builder := tapchanger.NewBuilder(r, c.opts.resolver)
	combiner := tapchanger.NewCombiner(r)

	switch {
	case t.IsTwoWindings():
		res.T2x, res.Err = c.convertT2x(t, builder, combiner)
	case t.IsThreeWindings():
		res.T3x, res.Err = c.convertT3x(t, builder, combiner)
	default:
		res.Err = fmt.Errorf("transformer %s: expected 2 or 3 ends, got %d", t.ID, len(t.Ends))
	}

	return res
}

func (c *Converter) convertT2x(t *cgmes.Transformer, b *tapchanger.Builder, comb *tapchanger.Combiner) (*T2x, error) {
	raw, err := interpret.LoadT2x(t, b)
	if err != nil {
		return nil, err
	}

	in, err := interpret.Interpret2(raw, c.cfg.Xfmr2, comb)
	if err != nil {
		return nil, err
	}

	out, err := NewAssembler(comb).AssembleT2x(in)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Converter) convertT3x(t *cgmes.Transformer, b *tapchanger.Builder, comb *tapchanger.Combiner) (*T3x, error) {
	raw, err := interpret.LoadT3x(t, b)
	if err != nil {
		return nil, err
	}

	out, err := NewAssembler(comb).AssembleT3x(interpret.Interpret3(raw, c.cfg.Xfmr3))
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ConvertAll converts transformers concurrently and returns one Result per
// input, in input order. A failing transformer does not affect the others.
// Cancelling ctx stops scheduling: transformers not yet started get
// ctx.Err() as their error, and ConvertAll returns it.
func (c *Converter) ConvertAll(ctx context.Context, transformers []cgmes.Transformer) ([]Result, error) {
	results := make([]Result, len(transformers))

	var (
		g       errgroup.Group
		stopped error
	)

	g.SetLimit(c.opts.workers)

	for i := range transformers {
		if stopped = ctx.Err(); stopped != nil {
			for j := i; j < len(transformers); j++ {
				results[j] = Result{ID: transformers[j].ID, Diagnostics: &diagnostic.Diagnostics{}, Err: stopped}
			}

			break
		}

		i := i
		g.Go(func() error {
			results[i] = c.Convert(&transformers[i])
			return nil
		})
	}

	_ = g.Wait()

	return results, stopped
}

// MergeDiagnostics collects the diagnostics of every result in order.
func MergeDiagnostics(results []Result) *diagnostic.Diagnostics {
	all := &diagnostic.Diagnostics{}
	for _, r := range results {
		if r.Diagnostics != nil {
			all.Merge(*r.Diagnostics)
		}
	}

	return all
}
