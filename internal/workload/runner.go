package workload

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"admitd/internal/ratelimit"
)

const runIDLength = 12

// Runner drives a freshly built ledger with a generated key stream and
// tabulates the decisions. It is the harness around the engine, not part of
// it: all it does is call Admit in a loop and count booleans.
type Runner struct {
	cfg    Config
	ledger ratelimit.Ledger
	logger *zap.Logger
}

// NewRunner validates the config and builds the ledger under test.
func NewRunner(cfg Config, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload config: %w", err)
	}

	strategy, err := ratelimit.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	ledger, err := ratelimit.NewLedger(strategy, cfg.Policy())
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		ledger: ledger,
		logger: logger,
	}, nil
}

// Run executes the configured workload and returns its report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	seed := r.cfg.Seed
	if seed == 0 {
		seed = randomSeed()
	}

	keys := NewGenerator(seed).Keys(r.cfg.Requests)

	r.logger.Info("workload starting",
		zap.String("strategy", r.cfg.Strategy),
		zap.Int("requests", r.cfg.Requests),
		zap.Int("chunk_size", r.cfg.ChunkSize),
		zap.Int("workers", r.cfg.Workers),
		zap.Int("repetitions", r.cfg.Repetitions),
		zap.Uint64("seed", seed),
	)

	var pacer *rate.Limiter
	if r.cfg.Rate > 0 {
		pacer = rate.NewLimiter(rate.Limit(r.cfg.Rate), r.cfg.ChunkSize)
	}

	var admitted, denied atomic.Int64

	start := time.Now()

	for rep := range r.cfg.Repetitions {
		if err := r.runOnce(ctx, keys, pacer, &admitted, &denied); err != nil {
			return nil, fmt.Errorf("repetition %d: %w", rep, err)
		}
	}

	report := &Report{
		RunID:    newRunID(),
		Strategy: r.cfg.Strategy,
		Requests: int64(r.cfg.Requests) * int64(r.cfg.Repetitions),
		Admitted: admitted.Load(),
		Denied:   denied.Load(),
		Elapsed:  time.Since(start),
	}

	r.logger.Info("workload finished",
		zap.String("run_id", report.RunID),
		zap.Int64("admitted", report.Admitted),
		zap.Int64("denied", report.Denied),
		zap.Duration("elapsed", report.Elapsed),
	)

	return report, nil
}

func (r *Runner) runOnce(
	ctx context.Context,
	keys []string,
	pacer *rate.Limiter,
	admitted, denied *atomic.Int64,
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for chunk := range slices.Chunk(keys, r.cfg.ChunkSize) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			for _, key := range chunk {
				if pacer != nil {
					if err := pacer.Wait(ctx); err != nil {
						return err
					}
				}

				if r.ledger.Admit(key, time.Now()) {
					admitted.Add(1)
				} else {
					denied.Add(1)
				}
			}

			return nil
		})
	}

	return g.Wait()
}

func newRunID() string {
	gen, err := nanoid.Standard(runIDLength)
	if err != nil {
		// Only reachable with an invalid length constant.
		panic(err)
	}

	return gen()
}

func randomSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}

	return binary.LittleEndian.Uint64(buf[:])
}
