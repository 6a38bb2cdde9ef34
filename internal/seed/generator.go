// Package seed builds the correlated mock universe: excavators, locator employees,
// locate tickets and damage incidents. A Generator owns one seeded random stream, so a
// run is reproducible from its seed and the clock it was started with.
package seed

import (
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/sampler"
)

// ErrMissingDependency is returned when a stage runs without the upstream collection it needs.
var ErrMissingDependency = errors.New("seed: missing required upstream collection")

const day = 24 * time.Hour

// Config tunes a Generator.
type Config struct {
	Seed uint64
	// Now is the generation clock every relative date is computed from.
	Now time.Time
	// Grid tessellates employee territories. Zero value means geo.DefaultGrid().
	Grid geo.Grid
	// Hotspots is the number of recurring damage clusters per run.
	Hotspots int
}

// Generator draws every entity from a single ChaCha8 stream.
type Generator struct {
	rng   *rand.Rand
	src   *rand.ChaCha8
	faker *gofakeit.Faker
	now   time.Time
	grid  geo.Grid
	spots int
}

// New creates a Generator for one run.
func New(cfg Config) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], cfg.Seed)
	src := rand.NewChaCha8(key)

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	grid := cfg.Grid
	if grid.Cols == 0 {
		grid = geo.DefaultGrid()
	}
	spots := cfg.Hotspots
	if spots <= 0 {
		spots = 5
	}

	return &Generator{
		rng:   rand.New(src),
		src:   src,
		faker: gofakeit.NewFaker(src, false),
		now:   now.UTC(),
		grid:  grid,
		spots: spots,
	}
}

// Now returns the generation clock.
func (g *Generator) Now() time.Time { return g.now }

// Rand exposes the run's stream for callers that draw alongside the generator.
func (g *Generator) Rand() sampler.Rand { return g.rng }

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		// ChaCha8 reads never fail.
		panic(err)
	}
	return id.String()
}

func (g *Generator) phone() string {
	return g.faker.Numerify(phoneFormat)
}

func (g *Generator) email() string {
	return strings.ToLower(g.faker.Email())
}

func (g *Generator) zip() string {
	return g.faker.Numerify("#####")
}

// past returns an instant in (now-span, now].
func (g *Generator) past(span time.Duration) time.Time {
	return g.now.Add(-g.span(span))
}

// future returns an instant in [now, now+span).
func (g *Generator) future(span time.Duration) time.Time {
	return g.now.Add(g.span(span))
}

func (g *Generator) span(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(g.rng.Int64N(int64(d))).Truncate(time.Millisecond)
}

func years(n float64) time.Duration {
	return time.Duration(n * 365 * float64(day))
}

func dateOnly(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
