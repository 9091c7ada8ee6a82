// Package benchmark runs the octree performance workload: random spheres inserted, removed, moved
// and culled against a view frustum, each phase timed over many iterations.
package benchmark

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/HexaEngine/HexaEngine-sub024/logging"
	"github.com/HexaEngine/HexaEngine-sub024/octree"
	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
	"github.com/HexaEngine/HexaEngine-sub024/utils"
)

// A PhaseObserver is told about every measured iteration.
type PhaseObserver interface {
	ObservePhase(phase string, d time.Duration)
}

// An Option configures a Runner.
type Option func(*Runner)

// WithObserver reports every measured iteration to obs.
func WithObserver(obs PhaseObserver) Option {
	return func(r *Runner) {
		r.observer = obs
	}
}

// WithTreeLogger sets the logger handed to the tree under test. By default the tree logs to the
// "octree" sublogger of the runner's logger.
func WithTreeLogger(logger logging.Logger) Option {
	return func(r *Runner) {
		r.treeLogger = logger
	}
}

// A Runner owns the tree under test and runs the configured phases against it.
type Runner struct {
	cfg      Config
	logger   logging.Logger
	clock    clock.Clock
	observer PhaseObserver

	treeLogger logging.Logger

	// mu guards the tree. Each iteration holds it, so Stats never sees a tree mid-operation.
	mu      sync.Mutex
	tree    *octree.Octree[int]
	stack   *octree.WalkStack
	spheres []spatialmath.Sphere
	frustum spatialmath.Frustum
}

// NewRunner validates cfg, filling in defaults, and builds the tree under test.
func NewRunner(cfg Config, logger logging.Logger, clk clock.Clock, opts ...Option) (*Runner, error) {
	cfg.applyDefaults()
	if err := cfg.Validate("benchmark"); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}

	r := &Runner{
		cfg:     cfg,
		logger:  logger,
		clock:   clk,
		stack:   octree.NewWalkStack(),
		frustum: viewFrustum(cfg),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.treeLogger == nil {
		r.treeLogger = logger.Sublogger("octree")
	}

	treeCfg := cfg.treeConfig()
	tree, err := octree.NewFromConfig[int](&treeCfg, r.treeLogger)
	if err != nil {
		return nil, err
	}
	r.tree = tree
	return r, nil
}

// Config returns the configuration in use, defaults included.
func (r *Runner) Config() Config {
	return r.cfg
}

// Stats returns a snapshot of the tree under test. It is safe to call while Run is in progress.
func (r *Runner) Stats() octree.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.Stats()
}

// Run generates the objects from the configured seed, warms the tree up and times every configured
// phase. It stops between iterations once ctx is done.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	load := newWorkload(r.cfg)
	r.mu.Lock()
	r.spheres = load.spheres(r.cfg.Objects)
	r.tree.Clear()
	r.mu.Unlock()

	r.logger.Infow("warming up", "objects", r.cfg.Objects, "rounds", r.cfg.Warmup)
	for range r.cfg.Warmup {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.warmup()
	}

	report := &Report{Objects: r.cfg.Objects, Iterations: r.cfg.Iterations}
	for _, phase := range r.cfg.Phases {
		result, err := r.runPhase(ctx, phase, load)
		if err != nil {
			return nil, errors.Wrapf(err, "phase %s", phase)
		}
		r.logger.Infow("finished phase", "phase", phase, "total", result.Total, "mean", result.Mean)
		report.Phases = append(report.Phases, result)
	}
	return report, nil
}

func (r *Runner) warmup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addAll()
	for i, sphere := range r.spheres {
		r.tree.UpdateObject(i, sphere)
	}
	r.removeAll()
	r.tree.Clear()
}

func (r *Runner) runPhase(ctx context.Context, phase Phase, load *workload) (PhaseResult, error) {
	r.mu.Lock()
	r.tree.Clear()
	if phase.populates() {
		r.addAll()
	}
	r.mu.Unlock()

	samples := make([]time.Duration, 0, r.cfg.Iterations)
	visible := 0
	for range r.cfg.Iterations {
		if err := ctx.Err(); err != nil {
			return PhaseResult{}, err
		}
		elapsed, n, err := r.iterate(ctx, phase, load)
		if err != nil {
			return PhaseResult{}, err
		}
		if r.observer != nil {
			r.observer.ObservePhase(string(phase), elapsed)
		}
		samples = append(samples, elapsed)
		visible = n
	}

	if r.cfg.Verify {
		r.mu.Lock()
		err := r.tree.Validate()
		r.mu.Unlock()
		if err != nil {
			return PhaseResult{}, errors.Wrap(err, "tree failed verification")
		}
	}

	result, err := newPhaseResult(phase, samples, r.cfg.Objects)
	if err != nil {
		return PhaseResult{}, err
	}
	if phase.counts() {
		result.Visible = visible
	}
	return result, nil
}

// iterate runs one measured iteration of phase. Unmeasured preparation happens outside the timed
// region. It returns the elapsed time and, for visibility phases, the number of visible objects.
func (r *Runner) iterate(ctx context.Context, phase Phase, load *workload) (time.Duration, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch phase {
	case PhaseInsert:
		start := r.clock.Now()
		r.addAll()
		r.tree.Clear()
		return r.clock.Since(start), 0, nil
	case PhaseDelete:
		r.addAll()
		start := r.clock.Now()
		r.removeAll()
		return r.clock.Since(start), 0, nil
	case PhaseReinsert:
		load.move(r.spheres)
		start := r.clock.Now()
		for i, sphere := range r.spheres {
			r.tree.RemoveObject(i)
			r.tree.AddObject(i, sphere)
		}
		return r.clock.Since(start), 0, nil
	case PhaseUpdate:
		load.move(r.spheres)
		start := r.clock.Now()
		for i, sphere := range r.spheres {
			r.tree.UpdateObject(i, sphere)
		}
		return r.clock.Since(start), 0, nil
	case PhaseCull:
		start := r.clock.Now()
		n := 0
		for range r.tree.QueryFrustum(&r.frustum, r.stack) {
			n++
		}
		return r.clock.Since(start), n, nil
	case PhaseScan:
		start := r.clock.Now()
		n := 0
		for _, sphere := range r.spheres {
			if r.frustum.IntersectsSphere(sphere) {
				n++
			}
		}
		return r.clock.Since(start), n, nil
	case PhaseScanParallel:
		start := r.clock.Now()
		visible := atomic.NewInt64(0)
		err := utils.GroupWorkParallel(ctx, len(r.spheres), func(_, from, to int) {
			var n int64
			for _, sphere := range r.spheres[from:to] {
				if r.frustum.IntersectsSphere(sphere) {
					n++
				}
			}
			visible.Add(n)
		})
		if err != nil {
			return 0, 0, err
		}
		return r.clock.Since(start), int(visible.Load()), nil
	default:
		return 0, 0, errors.Errorf("unknown phase %q", phase)
	}
}

func (r *Runner) addAll() {
	for i, sphere := range r.spheres {
		r.tree.AddObject(i, sphere)
	}
}

func (r *Runner) removeAll() {
	for i := range r.spheres {
		r.tree.RemoveObject(i)
	}
}
