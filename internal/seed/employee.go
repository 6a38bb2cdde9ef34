package seed

import (
	"fmt"
	"math"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/model"
	"github.com/aegis-locate/aegis-seed/internal/sampler"
)

var experienceWeights = []sampler.Choice[model.ExperienceCategory]{
	{Value: model.ExperienceNovice, Weight: 30},
	{Value: model.ExperienceExperienced, Weight: 50},
	{Value: model.ExperienceSenior, Weight: 20},
}

// hireYearsAgo bounds how long ago each category was hired.
var hireYearsAgo = map[model.ExperienceCategory][2]float64{
	model.ExperienceNovice:      {0.2, 2},
	model.ExperienceExperienced: {2, 5},
	model.ExperienceSenior:      {5, 15},
}

// Employees returns count locators, each owning the grid cell matching its position in
// generation order. count above the grid capacity fails with geo.ErrGridCapacity before
// anything is drawn.
func (g *Generator) Employees(count int) ([]model.Employee, error) {
	if count > g.grid.Capacity() {
		return nil, eris.Wrapf(geo.ErrGridCapacity, "seed: %d employees for %d territories", count, g.grid.Capacity())
	}

	out := make([]model.Employee, 0, count)
	for i := range count {
		e, err := g.employee(i)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (g *Generator) employee(index int) (model.Employee, error) {
	r := g.rng
	category := sampler.Pick(r, experienceWeights)

	span := hireYearsAgo[category]
	yearsAgo := sampler.FloatRange(r, span[0], span[1], 0.1)
	hire := g.now.AddDate(0, 0, -int(yearsAgo*365))
	hireDate := dateOnly(hire)
	yearsExp := g.yearsSince(hireDate)

	cell, err := g.grid.Cell(r, index)
	if err != nil {
		return model.Employee{}, eris.Wrapf(err, "seed: territory for employee %d", index+1)
	}

	first := g.faker.FirstName()
	last := g.faker.LastName()

	prior := 0.0
	if category == model.ExperienceSenior {
		prior = sampler.FloatRange(r, 1, 5, 0.1)
	}

	return model.Employee{
		ID:                 g.newID(),
		EmployeeNumber:     fmt.Sprintf("LOC-%04d", index+1),
		FirstName:          first,
		LastName:           last,
		FullName:           first + " " + last,
		Email:              g.email(),
		Phone:              g.phone(),
		Role:               model.RoleFor(yearsExp),
		ExperienceCategory: category,
		Experience: model.Experience{
			HireDate:                hireDate,
			YearsExperience:         yearsExp,
			YearsWithCompany:        yearsExp,
			PriorIndustryExperience: prior,
			TotalTicketsCompleted:   int(math.Floor(yearsExp * 800)),
		},
		Certifications:     g.locatorCertifications(category),
		Specialties:        sampler.ElementsRange(r, locatorSpecialties, 2, maxSpecialties(yearsExp)),
		PerformanceMetrics: g.performanceMetrics(category),
		CurrentWorkload:    g.workload(category),
		Territory: model.Territory{
			AssignedGeoFence: cell.Polygon,
			CenterPoint:      cell.Center,
			Description:      cell.Label,
			GridIndex:        cell.Index,
			Row:              cell.Row,
			Col:              cell.Col,
		},
		Availability: model.Availability{
			Status: sampler.Pick(r, []sampler.Choice[model.AvailabilityStatus]{
				{Value: model.StatusAvailable, Weight: 70},
				{Value: model.StatusBusy, Weight: 20},
				{Value: model.StatusOffShift, Weight: 5},
				{Value: model.StatusOnLeave, Weight: 5},
			}),
			ShiftStart:         "07:00",
			ShiftEnd:           "16:00",
			CurrentLocation:    geo.RandomPoint(r, geo.ServiceArea),
			LastLocationUpdate: g.past(time.Duration(0.1 * float64(day))),
		},
		TrainingHistory:   g.trainingHistory(yearsExp),
		NotableExperience: g.notableExperience(category),
		Active:            true,
		CreatedAt:         hireDate,
		UpdatedAt:         g.now,
	}, nil
}

// yearsSince measures 365-day years from the start of date to now, to one decimal.
func (g *Generator) yearsSince(date string) float64 {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return 0
	}
	return sampler.Round(g.now.Sub(t).Hours()/(365*24), 0.1)
}

func maxSpecialties(yearsExp float64) int {
	switch {
	case yearsExp >= 5:
		return 5
	case yearsExp >= 2:
		return 4
	default:
		return 2
	}
}

var certificationCounts = map[model.ExperienceCategory][2]int{
	model.ExperienceNovice:      {1, 3},
	model.ExperienceExperienced: {3, 5},
	model.ExperienceSenior:      {5, 7},
}

func (g *Generator) locatorCertifications(category model.ExperienceCategory) []model.Certification {
	bounds := certificationCounts[category]
	picked := sampler.ElementsRange(g.rng, locatorCertifications, bounds[0], bounds[1])

	out := make([]model.Certification, 0, len(picked))
	for _, c := range picked {
		out = append(out, model.Certification{
			Type:           c,
			Level:          "certified",
			ObtainedDate:   dateOnly(g.past(years(3))),
			ExpirationDate: dateOnly(g.future(years(2))),
		})
	}
	return out
}

type performanceRange struct {
	accuracy     [2]float64
	damages      []sampler.Choice[int]
	completion   [2]float64
	rework       [2]float64
	satisfaction [2]float64
}

// Ranges are ordered so a higher category is never worse in expectation.
var performanceRanges = map[model.ExperienceCategory]performanceRange{
	model.ExperienceSenior: {
		accuracy:     [2]float64{0.96, 1.00},
		damages:      []sampler.Choice[int]{{Value: 0, Weight: 90}, {Value: 1, Weight: 10}},
		completion:   [2]float64{2.0, 3.0},
		rework:       [2]float64{0.00, 0.02},
		satisfaction: [2]float64{4.5, 5.0},
	},
	model.ExperienceExperienced: {
		accuracy:     [2]float64{0.90, 0.96},
		damages:      []sampler.Choice[int]{{Value: 0, Weight: 80}, {Value: 1, Weight: 15}, {Value: 2, Weight: 5}},
		completion:   [2]float64{2.5, 3.5},
		rework:       [2]float64{0.02, 0.05},
		satisfaction: [2]float64{4.0, 4.7},
	},
	model.ExperienceNovice: {
		accuracy:     [2]float64{0.85, 0.92},
		damages:      []sampler.Choice[int]{{Value: 0, Weight: 70}, {Value: 1, Weight: 20}, {Value: 2, Weight: 8}, {Value: 3, Weight: 2}},
		completion:   [2]float64{3.0, 4.5},
		rework:       [2]float64{0.05, 0.10},
		satisfaction: [2]float64{3.8, 4.3},
	},
}

func (g *Generator) performanceMetrics(category model.ExperienceCategory) model.PerformanceMetrics {
	r := g.rng
	pr := performanceRanges[category]
	damages := sampler.Pick(r, pr.damages)

	return model.PerformanceMetrics{
		AccuracyRate:               sampler.FloatRange(r, pr.accuracy[0], pr.accuracy[1], 0.01),
		Damages12Mo:                damages,
		AtFaultDamagesEver:         damages + sampler.IntRange(r, 0, 2),
		AverageCompletionTimeHours: sampler.FloatRange(r, pr.completion[0], pr.completion[1], 0.1),
		ReworkRate:                 sampler.FloatRange(r, pr.rework[0], pr.rework[1], 0.01),
		CustomerSatisfaction:       sampler.FloatRange(r, pr.satisfaction[0], pr.satisfaction[1], 0.1),
		TicketsCompleted30d:        sampler.IntRange(r, 15, 90),
	}
}

// Capacity is 5 tickets a day for novices and 8 for everyone else.
func dailyCapacity(category model.ExperienceCategory) int {
	if category == model.ExperienceNovice {
		return 5
	}
	return 8
}

func (g *Generator) workload(category model.ExperienceCategory) model.Workload {
	r := g.rng
	capacity := dailyCapacity(category)
	today := sampler.IntRange(r, 0, capacity)
	highRisk := sampler.IntRange(r, 0, int(math.Ceil(float64(today)*0.3)))

	share := 0.0
	if today > 0 {
		share = float64(highRisk) / float64(today)
	}

	return model.Workload{
		TicketsToday:       today,
		TicketsThisWeek:    sampler.IntRange(r, today, 35),
		MaxCapacityDaily:   capacity,
		CurrentUtilization: float64(today) / float64(capacity),
		TicketBreakdown: model.TicketBreakdown{
			Routine:  today - highRisk,
			HighRisk: highRisk,
		},
		HighRiskPercentage: share,
	}
}

func (g *Generator) trainingHistory(yearsExp float64) []model.Training {
	n := min(int(math.Floor(yearsExp*2)), len(trainingCourses))
	courses := sampler.Elements(g.rng, trainingCourses, n)

	out := make([]model.Training, 0, len(courses))
	for _, c := range courses {
		out = append(out, model.Training{
			Course:     c,
			Date:       dateOnly(g.past(years(yearsExp))),
			Instructor: sampler.Element(g.rng, trainingInstructors),
		})
	}
	return out
}

func (g *Generator) notableExperience(category model.ExperienceCategory) []string {
	switch category {
	case model.ExperienceSenior:
		return sampler.ElementsRange(g.rng, notableExperiences, 3, 5)
	case model.ExperienceExperienced:
		return sampler.ElementsRange(g.rng, notableExperiences, 1, 3)
	default:
		return []string{}
	}
}
