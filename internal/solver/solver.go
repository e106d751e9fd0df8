package solver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"cflpGA/internal/cflp"
	"cflpGA/internal/opt"
	"cflpGA/internal/report"
	"cflpGA/internal/store"
)

// Solver wires an instance, its evaluator and a search engine together and
// takes care of timing, reporting and persistence around a run.
type Solver struct {
	Engine    opt.Optimizer
	Algorithm string
	Mode      cflp.Mode
	Seed      int64

	// Optional outputs; empty or nil disables them.
	PlotDir    string
	PlotFormat string
	DataDir    string
	Store      *store.Store
}

// Solve runs the engine on inst. Nothing is rendered or persisted when the run fails.
func (s *Solver) Solve(ctx context.Context, inst *cflp.Instance) (opt.Result, error) {
	if s.Engine == nil {
		return opt.Result{}, fmt.Errorf("solver: engine is nil")
	}
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}

	if s.DataDir != "" {
		path, err := inst.SaveAMPL(s.DataDir)
		if err != nil {
			return opt.Result{}, fmt.Errorf("export %s: %w", inst.Name, err)
		}
		log.Debug().Str("path", path).Msg("ampl data written")
	}

	eval, err := cflp.NewEvaluator(inst, s.Mode)
	if err != nil {
		return opt.Result{}, err
	}

	s.Engine.SetBits(inst.Facilities)

	log.Info().
		Str("dataset", inst.Name).
		Int("facilities", inst.Facilities).
		Int("clients", inst.Clients).
		Str("mode", string(s.Mode)).
		Msg("solving")

	start := time.Now()
	res, err := s.Engine.Run(ctx, eval)
	if err != nil {
		log.Error().Err(err).Str("dataset", inst.Name).Msg("error while executing heuristic")
		return opt.Result{}, fmt.Errorf("%s: %w", inst.Name, err)
	}
	res.Duration = time.Since(start)

	report.LogSummary(log.Info(), inst.Name, res)

	if s.PlotDir != "" {
		format := s.PlotFormat
		if format == "" {
			format = "png"
		}
		path := filepath.Join(s.PlotDir, inst.Name+"."+format)
		if err := report.PlotConvergence(res, inst.Name, path); err != nil {
			return res, fmt.Errorf("plot %s: %w", inst.Name, err)
		}
		log.Debug().Str("path", path).Msg("convergence plot written")
	}

	if s.Store != nil {
		id, err := s.Store.SaveRun(ctx, store.RunMeta{
			Dataset:   inst.Name,
			Algorithm: s.Algorithm,
			Mode:      string(s.Mode),
			Seed:      s.Seed,
		}, res)
		if err != nil {
			return res, err
		}
		log.Debug().Str("run", id).Msg("run stored")
	}

	return res, nil
}
