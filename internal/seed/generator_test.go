package seed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-locate/aegis-seed/internal/model"
)

var testNow = time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)

func newTestGenerator(seed uint64) *Generator {
	return New(Config{Seed: seed, Now: testNow})
}

// onePerProfile builds a pool holding exactly one excavator of each risk profile.
func onePerProfile(t *testing.T) []model.Excavator {
	t.Helper()
	g := newTestGenerator(99)
	var pool []model.Excavator
	for _, profile := range model.RiskProfiles {
		e := g.excavator()
		e.RiskProfile = profile
		pool = append(pool, e)
	}
	return pool
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	g := New(Config{Seed: 1})
	assert.False(t, g.Now().IsZero())
	assert.Equal(t, time.UTC, g.Now().Location())
	assert.Equal(t, 25, g.grid.Capacity())
	assert.Equal(t, 5, g.spots)
}

func TestSameSeedSameSnapshot(t *testing.T) {
	t.Parallel()

	run := func() []byte {
		g := newTestGenerator(42)
		exc := g.Excavators(10)
		emp, err := g.Employees(5)
		require.NoError(t, err)
		tix, err := g.Tickets(20, exc)
		require.NoError(t, err)
		dmg, err := g.Damages(10, exc, tix)
		require.NoError(t, err)

		b, err := json.Marshal([]any{exc, emp, tix, dmg})
		require.NoError(t, err)
		return b
	}

	assert.JSONEq(t, string(run()), string(run()))
}

func TestDifferentSeedsDiffer(t *testing.T) {
	t.Parallel()

	a := newTestGenerator(1).Excavators(3)
	b := newTestGenerator(2).Excavators(3)
	assert.NotEqual(t, a[0].ID, b[0].ID)
}

func TestIDsAreUUIDs(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(7)
	seen := map[string]bool{}
	for range 100 {
		id := g.newID()
		assert.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestPastAndFutureStayInWindow(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(3)
	for range 200 {
		p := g.past(30 * day)
		assert.False(t, p.After(testNow))
		assert.True(t, p.After(testNow.Add(-30*day)))

		f := g.future(2 * day)
		assert.False(t, f.Before(testNow))
		assert.True(t, f.Before(testNow.Add(2*day)))
	}
	assert.Equal(t, testNow, g.past(0))
}

func TestRequestedCollectionSizes(t *testing.T) {
	t.Parallel()

	for _, seed := range []uint64{1, 2, 3} {
		g := newTestGenerator(seed)
		exc := g.Excavators(50)
		emp, err := g.Employees(25)
		require.NoError(t, err)
		tix, err := g.Tickets(200, exc)
		require.NoError(t, err)
		dmg, err := g.Damages(100, exc, tix)
		require.NoError(t, err)

		assert.Len(t, exc, 50)
		assert.Len(t, emp, 25)
		assert.Len(t, tix, 200)
		assert.Len(t, dmg, 100)
	}
}
