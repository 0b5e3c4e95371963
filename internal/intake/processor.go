// Package intake validates batches of untrusted records arriving from a named
// source (an API response, a message-bus topic, a file) and reports which
// records were accepted, which were rejected and why.
package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/scrypster/strata/internal/config"
	"github.com/scrypster/strata/pkg/normalize"
	"github.com/scrypster/strata/pkg/validation"
)

// Shape selects which validator a batch is checked with.
type Shape string

// Record shapes
const (
	ShapeEntity            Shape = "entity"
	ShapeBreadcrumb        Shape = "breadcrumb"
	ShapeHierarchyNode     Shape = "node"
	ShapeHierarchyResponse Shape = "hierarchy"
	ShapeSearchResult      Shape = "search"
)

// Shapes lists every supported shape.
var Shapes = []Shape{ShapeEntity, ShapeBreadcrumb, ShapeHierarchyNode, ShapeHierarchyResponse, ShapeSearchResult}

var (
	// ErrUnknownShape is returned when a batch names an unsupported shape.
	ErrUnknownShape = errors.New("unknown record shape")

	// ErrSourceTripped marks records skipped because their source produced
	// too many rejections in a row.
	ErrSourceTripped = errors.New("source tripped after consecutive rejections")
)

// Options controls a Processor.
type Options struct {
	Shape  Shape
	Tagged bool // dispatch entities through the tagged union

	Workers       int
	RatePerSecond float64 // 0 disables throttling
	Burst         int

	MaxConsecutiveRejects uint32 // 0 disables the source guard
	SourceCooldown        time.Duration
}

// OptionsFromConfig builds processor options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, shape Shape) Options {
	return Options{
		Shape:                 shape,
		Tagged:                cfg.Validation.Tagged,
		Workers:               cfg.Intake.Workers,
		RatePerSecond:         cfg.Intake.RatePerSecond,
		Burst:                 cfg.Intake.Burst,
		MaxConsecutiveRejects: cfg.Intake.MaxConsecutiveRejects,
		SourceCooldown:        cfg.Intake.SourceCooldown,
	}
}

// Accepted is a record that passed validation, in typed form, together with
// its display-safe values.
type Accepted struct {
	Index         int
	Value         interface{} // *types.Entity, *types.BreadcrumbItem, *types.HierarchyNode, ...
	Confidence    float64
	ChildrenCount int
}

// Rejected is a record that failed validation.
type Rejected struct {
	Index  int
	Errors validation.Errors
}

// Report is the outcome of one batch. Accepted, Rejected and Skipped are
// each in input order.
type Report struct {
	BatchID  string
	Source   string
	Shape    Shape
	Total    int
	Accepted []Accepted
	Rejected []Rejected
	Skipped  []int
}

// OK reports whether every record of the batch was accepted.
func (r *Report) OK() bool {
	return len(r.Rejected) == 0 && len(r.Skipped) == 0
}

// Processor validates batches. It is safe for concurrent use.
type Processor struct {
	validator *validation.Validator
	opts      Options
	logger    *zap.Logger
	limiter   *rate.Limiter

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewProcessor creates a processor. A nil logger disables logging.
func NewProcessor(v *validation.Validator, opts Options, logger *zap.Logger) (*Processor, error) {
	if !validShape(opts.Shape) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, opts.Shape)
	}
	if v == nil {
		v = validation.New(validation.Options{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	p := &Processor{
		validator: v,
		opts:      opts,
		logger:    logger,
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
	}
	if opts.RatePerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return p, nil
}

func validShape(s Shape) bool {
	for _, known := range Shapes {
		if s == known {
			return true
		}
	}
	return false
}

// outcome is the per-record result before the report is assembled.
type outcome struct {
	value   interface{}
	errs    validation.Errors
	skipped bool
}

// Process validates records from source. Validation failures never make
// Process fail; only cancellation of ctx does.
func (p *Processor) Process(ctx context.Context, source string, records []map[string]interface{}) (*Report, error) {
	batchID := uuid.NewString()
	log := p.logger.With(
		zap.String("batch", batchID),
		zap.String("source", source),
		zap.String("shape", string(p.opts.Shape)),
	)

	outcomes := make([]outcome, len(records))
	breaker := p.breakerFor(source)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if p.limiter != nil {
				if err := p.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			outcomes[i] = p.run(breaker, records[i])
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("intake of %s interrupted: %w", source, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("intake of %s interrupted: %w", source, err)
	}

	report := &Report{BatchID: batchID, Source: source, Shape: p.opts.Shape, Total: len(records)}
	for i, o := range outcomes {
		switch {
		case o.skipped:
			report.Skipped = append(report.Skipped, i)
		case len(o.errs) > 0:
			report.Rejected = append(report.Rejected, Rejected{Index: i, Errors: o.errs})
			first := o.errs.First()
			log.Warn("Record rejected",
				zap.Int("index", i),
				zap.String("path", first.Path),
				zap.String("rule", string(first.Code)),
				zap.String("message", first.Message),
				zap.Int("violations", len(o.errs)))
		default:
			report.Accepted = append(report.Accepted, Accepted{
				Index:         i,
				Value:         o.value,
				Confidence:    normalize.RecordConfidence(records[i]),
				ChildrenCount: normalize.ChildrenCount(records[i]),
			})
		}
	}

	log.Info("Batch processed",
		zap.Int("total", report.Total),
		zap.Int("accepted", len(report.Accepted)),
		zap.Int("rejected", len(report.Rejected)),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

// run validates one record, through the source breaker when one is configured.
func (p *Processor) run(breaker *gobreaker.CircuitBreaker, record map[string]interface{}) outcome {
	if breaker == nil {
		return p.validate(record)
	}

	var o outcome
	_, err := breaker.Execute(func() (interface{}, error) {
		o = p.validate(record)
		if len(o.errs) > 0 {
			return nil, o.errs
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return outcome{skipped: true}
	}
	return o
}

func (p *Processor) validate(record map[string]interface{}) outcome {
	value, err := p.dispatch(record)
	if err == nil {
		return outcome{value: value}
	}
	errs, ok := validation.AsErrors(err)
	if !ok {
		// Decoding an accepted record failed; report it against the record itself.
		errs = validation.Errors{{Path: "", Code: validation.CodeInvalidType, Message: err.Error()}}
	}
	return outcome{errs: errs}
}

func (p *Processor) dispatch(record map[string]interface{}) (interface{}, error) {
	v := p.validator
	switch p.opts.Shape {
	case ShapeEntity:
		if p.opts.Tagged {
			return v.ValidateTagged(record)
		}
		return v.ValidateEntity(record)
	case ShapeBreadcrumb:
		return v.ValidateBreadcrumb(record)
	case ShapeHierarchyNode:
		return v.ValidateHierarchyNode(record)
	case ShapeHierarchyResponse:
		return v.ValidateHierarchyResponse(record)
	case ShapeSearchResult:
		return v.ValidateSearchResult(record)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, p.opts.Shape)
}

// breakerFor returns the guard for source, creating it on first use.
func (p *Processor) breakerFor(source string) *gobreaker.CircuitBreaker {
	if p.opts.MaxConsecutiveRejects == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[source]; ok {
		return cb
	}

	limit := p.opts.MaxConsecutiveRejects
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        source,
		MaxRequests: 1,
		Interval:    0, // Don't clear counts periodically
		Timeout:     p.opts.SourceCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			p.logger.Warn("Source guard changed state",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	p.breakers[source] = cb
	return cb
}

// SourceState reports the guard state for source. Sources without a guard
// are always closed.
func (p *Processor) SourceState(source string) gobreaker.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cb, ok := p.breakers[source]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}
