package seed

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/model"
)

func TestEmployeesTileDistinctCells(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(21)
	emps, err := g.Employees(25)
	require.NoError(t, err)
	require.Len(t, emps, 25)

	seen := map[[2]int]bool{}
	labels := map[string]bool{}
	for i, e := range emps {
		cell := [2]int{e.Territory.Row, e.Territory.Col}
		assert.False(t, seen[cell], "cell %v assigned twice", cell)
		seen[cell] = true
		labels[e.Territory.Description] = true

		assert.Equal(t, i, e.Territory.GridIndex)
		assert.Equal(t, i/5, e.Territory.Row)
		assert.Equal(t, i%5, e.Territory.Col)
		assert.Equal(t, fmt.Sprintf("LOC-%04d", i+1), e.EmployeeNumber)
		assert.True(t, e.Territory.AssignedGeoFence.Contains(e.Territory.CenterPoint))
		assert.Len(t, e.Territory.AssignedGeoFence.Ring(), geo.TerritorySteps+1)
	}
	assert.Len(t, labels, 25)
	assert.Equal(t, "Zone A1", emps[0].Territory.Description)
	assert.Equal(t, "Zone E5", emps[24].Territory.Description)
}

func TestEmployeesOverCapacity(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(22)
	emps, err := g.Employees(26)
	require.Error(t, err)
	assert.True(t, errors.Is(err, geo.ErrGridCapacity))
	assert.Nil(t, emps)
}

func TestEmployeeRoleFollowsComputedYears(t *testing.T) {
	t.Parallel()

	for _, seed := range []uint64{1, 2, 3, 4} {
		g := newTestGenerator(seed)
		emps, err := g.Employees(25)
		require.NoError(t, err)

		for _, e := range emps {
			exp := e.Experience
			assert.Equal(t, model.RoleFor(exp.YearsExperience), e.Role)
			assert.Equal(t, exp.YearsExperience, exp.YearsWithCompany)
			assert.Equal(t, int(exp.YearsExperience*800), exp.TotalTicketsCompleted)
			assert.Equal(t, e.FirstName+" "+e.LastName, e.FullName)
			assert.Equal(t, exp.HireDate, e.CreatedAt)

			hire, err := time.Parse(time.DateOnly, exp.HireDate)
			require.NoError(t, err)
			assert.True(t, hire.Before(testNow))

			span := hireYearsAgo[e.ExperienceCategory]
			assert.GreaterOrEqual(t, exp.YearsExperience, span[0]-0.1)
			assert.LessOrEqual(t, exp.YearsExperience, span[1]+0.1)

			if e.ExperienceCategory == model.ExperienceSenior {
				assert.GreaterOrEqual(t, exp.PriorIndustryExperience, 1.0)
			} else {
				assert.Zero(t, exp.PriorIndustryExperience)
			}
		}
	}
}

func TestEmployeeAttributesScaleWithExperience(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(23)
	var all []model.Employee
	for range 8 {
		emps, err := g.Employees(25)
		require.NoError(t, err)
		all = append(all, emps...)
	}

	for _, e := range all {
		bounds := certificationCounts[e.ExperienceCategory]
		assert.GreaterOrEqual(t, len(e.Certifications), bounds[0])
		assert.LessOrEqual(t, len(e.Certifications), bounds[1])
		for _, c := range e.Certifications {
			assert.Equal(t, "certified", c.Level)
			assert.LessOrEqual(t, c.ObtainedDate, c.ExpirationDate)
		}

		assert.GreaterOrEqual(t, len(e.Specialties), 2)
		assert.LessOrEqual(t, len(e.Specialties), maxSpecialties(e.Experience.YearsExperience))

		assert.LessOrEqual(t, len(e.TrainingHistory), 8)
		assert.Equal(t, min(int(e.Experience.YearsExperience*2), 8), len(e.TrainingHistory))

		switch e.ExperienceCategory {
		case model.ExperienceNovice:
			assert.Empty(t, e.NotableExperience)
			assert.NotNil(t, e.NotableExperience)
		case model.ExperienceExperienced:
			assert.GreaterOrEqual(t, len(e.NotableExperience), 1)
			assert.LessOrEqual(t, len(e.NotableExperience), 3)
		case model.ExperienceSenior:
			assert.GreaterOrEqual(t, len(e.NotableExperience), 3)
			assert.LessOrEqual(t, len(e.NotableExperience), 5)
		}

		pr := performanceRanges[e.ExperienceCategory]
		pm := e.PerformanceMetrics
		assert.GreaterOrEqual(t, pm.AccuracyRate, pr.accuracy[0])
		assert.LessOrEqual(t, pm.AccuracyRate, pr.accuracy[1])
		assert.GreaterOrEqual(t, pm.AtFaultDamagesEver, pm.Damages12Mo)
		assert.GreaterOrEqual(t, pm.TicketsCompleted30d, 15)
		assert.LessOrEqual(t, pm.TicketsCompleted30d, 90)
	}
}

func TestPerformanceRangesNeverWorseForHigherTiers(t *testing.T) {
	t.Parallel()

	mid := func(r [2]float64) float64 { return (r[0] + r[1]) / 2 }
	mean := func(p performanceRange) float64 {
		var total, sum float64
		for _, c := range p.damages {
			sum += float64(c.Value) * c.Weight
			total += c.Weight
		}
		return sum / total
	}

	tiers := []model.ExperienceCategory{model.ExperienceNovice, model.ExperienceExperienced, model.ExperienceSenior}
	for i := 1; i < len(tiers); i++ {
		lo, hi := performanceRanges[tiers[i-1]], performanceRanges[tiers[i]]
		assert.GreaterOrEqual(t, mid(hi.accuracy), mid(lo.accuracy))
		assert.LessOrEqual(t, mean(hi), mean(lo))
		assert.LessOrEqual(t, mid(hi.completion), mid(lo.completion))
		assert.LessOrEqual(t, mid(hi.rework), mid(lo.rework))
		assert.GreaterOrEqual(t, mid(hi.satisfaction), mid(lo.satisfaction))
	}
}

func TestEmployeeWorkload(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(24)
	emps, err := g.Employees(25)
	require.NoError(t, err)

	for _, e := range emps {
		w := e.CurrentWorkload
		assert.Equal(t, dailyCapacity(e.ExperienceCategory), w.MaxCapacityDaily)
		assert.LessOrEqual(t, w.TicketsToday, w.MaxCapacityDaily)
		assert.GreaterOrEqual(t, w.TicketsThisWeek, w.TicketsToday)
		assert.InDelta(t, float64(w.TicketsToday)/float64(w.MaxCapacityDaily), w.CurrentUtilization, 1e-9)
		assert.Equal(t, w.TicketsToday, w.TicketBreakdown.Routine+w.TicketBreakdown.HighRisk)
		assert.Zero(t, w.TicketBreakdown.Emergency)
		if w.TicketsToday == 0 {
			assert.Zero(t, w.HighRiskPercentage)
		}

		a := e.Availability
		assert.Equal(t, "07:00", a.ShiftStart)
		assert.Equal(t, "16:00", a.ShiftEnd)
		assert.True(t, geo.ServiceArea.Contains(a.CurrentLocation))
		assert.True(t, a.LastLocationUpdate.After(testNow.Add(-3*time.Hour)))
		assert.True(t, e.Active)
	}
}

func TestDailyCapacity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, dailyCapacity(model.ExperienceNovice))
	assert.Equal(t, 8, dailyCapacity(model.ExperienceExperienced))
	assert.Equal(t, 8, dailyCapacity(model.ExperienceSenior))
}
