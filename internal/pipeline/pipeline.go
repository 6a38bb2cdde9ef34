// Package pipeline runs the four generation stages in dependency order and persists
// each collection, then a summary of the run.
package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/model"
	"github.com/aegis-locate/aegis-seed/internal/seed"
	"github.com/aegis-locate/aegis-seed/internal/store"
)

// Default collection sizes.
const (
	DefaultExcavators = 50
	DefaultEmployees  = 25
	DefaultTickets    = 1000
	DefaultDamages    = 100
)

// Options configures one run.
type Options struct {
	// Seed drives every random draw. Zero picks a random seed, which is logged and
	// reported in the summary.
	Seed uint64
	// Now is the generation clock. Zero means the current time.
	Now time.Time

	Excavators int
	Employees  int
	// Tickets is the total ticket count, demo scenarios included.
	Tickets int
	Damages int
	// SkipDemos leaves the three fixed demo tickets out.
	SkipDemos bool
	Hotspots  int

	// Sink receives every collection. Nil keeps the run in memory.
	Sink store.Sink
	// TerritoriesPath, when set, also exports employee territories as a shapefile.
	TerritoriesPath string
}

// DefaultOptions returns the sizes of a standard demo dataset.
func DefaultOptions() Options {
	return Options{
		Excavators: DefaultExcavators,
		Employees:  DefaultEmployees,
		Tickets:    DefaultTickets,
		Damages:    DefaultDamages,
	}
}

// StageResult records one completed stage.
type StageResult struct {
	Name     string        `json:"name"`
	Count    int           `json:"count"`
	Duration time.Duration `json:"duration"`
}

// Result holds the collections of a finished run.
type Result struct {
	Seed       uint64
	Excavators []model.Excavator
	Employees  []model.Employee
	Tickets    []model.Ticket
	Damages    []model.Damage
	Summary    Summary
	Stages     []StageResult
}

// Run generates excavators, employees, tickets and damages in that order. Each stage's
// collection is written to the sink before the next stage starts; a failing stage stops
// the run with nothing written for it.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}
	log := zap.L().With(zap.Uint64("seed", opts.Seed))
	log.Info("pipeline: starting generation",
		zap.Int("excavators", opts.Excavators),
		zap.Int("employees", opts.Employees),
		zap.Int("tickets", opts.Tickets),
		zap.Int("damages", opts.Damages),
	)

	gen := seed.New(seed.Config{Seed: opts.Seed, Now: opts.Now, Hotspots: opts.Hotspots})
	res := &Result{Seed: opts.Seed}

	stage := func(name string, fn func() (any, int, error)) error {
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "pipeline: %s", name)
		}
		began := time.Now()
		records, n, err := fn()
		if err != nil {
			log.Error("pipeline: stage failed", zap.String("stage", name), zap.Error(err))
			return eris.Wrapf(err, "pipeline: %s", name)
		}
		if opts.Sink != nil {
			if err := opts.Sink.Write(ctx, name, records); err != nil {
				return eris.Wrapf(err, "pipeline: persist %s", name)
			}
		}
		sr := StageResult{Name: name, Count: n, Duration: time.Since(began)}
		res.Stages = append(res.Stages, sr)
		log.Info("pipeline: stage complete",
			zap.String("stage", name),
			zap.Int("count", n),
			zap.Int64("duration_ms", sr.Duration.Milliseconds()),
		)
		return nil
	}

	err := stage(store.Excavators, func() (any, int, error) {
		res.Excavators = gen.Excavators(opts.Excavators)
		return res.Excavators, len(res.Excavators), nil
	})
	if err != nil {
		return nil, err
	}

	err = stage(store.Employees, func() (any, int, error) {
		emps, err := gen.Employees(opts.Employees)
		res.Employees = emps
		return emps, len(emps), err
	})
	if err != nil {
		return nil, err
	}

	if opts.TerritoriesPath != "" {
		if err := geo.WriteTerritories(opts.TerritoriesPath, Territories(res.Employees)); err != nil {
			return nil, eris.Wrap(err, "pipeline: export territories")
		}
		log.Info("pipeline: territories exported", zap.String("path", opts.TerritoriesPath))
	}

	err = stage(store.Tickets, func() (any, int, error) {
		tix, err := tickets(gen, opts, res.Excavators)
		res.Tickets = tix
		return tix, len(tix), err
	})
	if err != nil {
		return nil, err
	}

	err = stage(store.Damages, func() (any, int, error) {
		dmg, err := gen.Damages(opts.Damages, res.Excavators, res.Tickets)
		res.Damages = dmg
		return dmg, len(dmg), err
	})
	if err != nil {
		return nil, err
	}

	res.Summary = Summarize(res, gen.Now(), time.Since(start))
	if opts.Sink != nil {
		if err := opts.Sink.Write(ctx, store.Summary, res.Summary); err != nil {
			return nil, eris.Wrap(err, "pipeline: persist summary")
		}
	}

	log.Info("pipeline: generation complete",
		zap.String("total_cost", res.Summary.Statistics.Damages.TotalCost),
		zap.String("elapsed", res.Summary.GenerationTimeSeconds),
	)
	return res, nil
}

// tickets puts the demo scenarios first and fills the rest of the requested total with
// regular tickets. Demos are kept even when they exceed the total.
func tickets(gen *seed.Generator, opts Options, excavators []model.Excavator) ([]model.Ticket, error) {
	var demos []model.Ticket
	if !opts.SkipDemos {
		var err error
		if demos, err = gen.Demos(excavators); err != nil {
			return nil, err
		}
	}

	regular, err := gen.Tickets(max(opts.Tickets-len(demos), 0), excavators)
	if err != nil {
		return nil, err
	}
	return append(demos, regular...), nil
}

// Territories maps employees to their cells for shapefile export.
func Territories(employees []model.Employee) []geo.Territory {
	out := make([]geo.Territory, 0, len(employees))
	for _, e := range employees {
		t := e.Territory
		var radius float64
		if ring := t.AssignedGeoFence.Ring(); len(ring) > 0 {
			radius = geo.HaversineKM(t.CenterPoint, geo.NewPoint(ring[0][0], ring[0][1]))
		}
		out = append(out, geo.Territory{
			EmployeeNumber: e.EmployeeNumber,
			Cell: geo.Cell{
				Index:    t.GridIndex,
				Row:      t.Row,
				Col:      t.Col,
				Center:   t.CenterPoint,
				Polygon:  t.AssignedGeoFence,
				RadiusKM: radius,
				Label:    t.Description,
			},
		})
	}
	return out
}
