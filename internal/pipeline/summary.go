package pipeline

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aegis-locate/aegis-seed/internal/model"
	"github.com/aegis-locate/aegis-seed/internal/seed"
)

// Summary is the _summary document written after the last stage.
type Summary struct {
	GeneratedAt           time.Time         `json:"generated_at" yaml:"generated_at"`
	Seed                  uint64            `json:"seed" yaml:"seed"`
	Counts                Counts            `json:"counts" yaml:"counts"`
	Statistics            Statistics        `json:"statistics" yaml:"statistics"`
	DemoScenarios         map[string]string `json:"demo_scenarios" yaml:"demo_scenarios"`
	GenerationTimeSeconds string            `json:"generation_time_seconds" yaml:"generation_time_seconds"`
}

// Counts are the collection sizes.
type Counts struct {
	Excavators int `json:"excavators" yaml:"excavators"`
	Employees  int `json:"employees" yaml:"employees"`
	Tickets    int `json:"tickets" yaml:"tickets"`
	Damages    int `json:"damages" yaml:"damages"`
}

// Statistics breaks each collection down by its main categories.
type Statistics struct {
	Excavators ExcavatorStats `json:"excavators" yaml:"excavators"`
	Employees  EmployeeStats  `json:"employees" yaml:"employees"`
	Tickets    TicketStats    `json:"tickets" yaml:"tickets"`
	Damages    DamageStats    `json:"damages" yaml:"damages"`
}

type ExcavatorStats struct {
	HighRisk             int `json:"high_risk" yaml:"high_risk"`
	Excellent            int `json:"excellent" yaml:"excellent"`
	Average              int `json:"average" yaml:"average"`
	TotalDamagesRecorded int `json:"total_damages_recorded" yaml:"total_damages_recorded"`
}

type EmployeeStats struct {
	Senior             int    `json:"senior" yaml:"senior"`
	Locator            int    `json:"locator" yaml:"locator"`
	Trainee            int    `json:"trainee" yaml:"trainee"`
	AvgExperienceYears string `json:"avg_experience_years" yaml:"avg_experience_years"`
	ZeroDamages        int    `json:"zero_damages" yaml:"zero_damages"`
}

type TicketStats struct {
	Emergency        int    `json:"emergency" yaml:"emergency"`
	NonCompliant     int    `json:"non_compliant" yaml:"non_compliant"`
	Routine          int    `json:"routine" yaml:"routine"`
	WithGas          int    `json:"with_gas" yaml:"with_gas"`
	WithElectric     int    `json:"with_electric" yaml:"with_electric"`
	AvgDistanceMiles string `json:"avg_distance_miles" yaml:"avg_distance_miles"`
}

type DamageStats struct {
	Critical       int    `json:"critical" yaml:"critical"`
	Major          int    `json:"major" yaml:"major"`
	Minor          int    `json:"minor" yaml:"minor"`
	ExcavatorFault int    `json:"excavator_fault" yaml:"excavator_fault"`
	LocatorFault   int    `json:"locator_fault" yaml:"locator_fault"`
	TotalCost      string `json:"total_cost" yaml:"total_cost"`
	AvgCost        string `json:"avg_cost" yaml:"avg_cost"`
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Summarize computes the run summary. Averages over an empty collection are zero.
func Summarize(res *Result, generatedAt time.Time, elapsed time.Duration) Summary {
	s := Summary{
		GeneratedAt: generatedAt,
		Seed:        res.Seed,
		Counts: Counts{
			Excavators: len(res.Excavators),
			Employees:  len(res.Employees),
			Tickets:    len(res.Tickets),
			Damages:    len(res.Damages),
		},
		DemoScenarios:         seed.DemoIDs(),
		GenerationTimeSeconds: strconv.FormatFloat(elapsed.Seconds(), 'f', 2, 64),
	}

	ex := &s.Statistics.Excavators
	for _, e := range res.Excavators {
		switch e.RiskProfile {
		case model.RiskHigh:
			ex.HighRisk++
		case model.RiskExcellent:
			ex.Excellent++
		case model.RiskAverage:
			ex.Average++
		}
		ex.TotalDamagesRecorded += e.DamageHistory.DamagesAllTime
	}

	em := &s.Statistics.Employees
	var years float64
	for _, e := range res.Employees {
		switch e.Role {
		case model.RoleSeniorLocator:
			em.Senior++
		case model.RoleLocator:
			em.Locator++
		case model.RoleTrainee:
			em.Trainee++
		}
		years += e.Experience.YearsExperience
		if e.PerformanceMetrics.Damages12Mo == 0 {
			em.ZeroDamages++
		}
	}
	em.AvgExperienceYears = strconv.FormatFloat(mean(years, len(res.Employees)), 'f', 1, 64)

	tk := &s.Statistics.Tickets
	var miles float64
	for _, t := range res.Tickets {
		switch t.Type {
		case model.TicketEmergency:
			tk.Emergency++
		case model.TicketNonCompliant:
			tk.NonCompliant++
		case model.TicketRoutine:
			tk.Routine++
		}
		if t.HasUtility(model.UtilityGas) {
			tk.WithGas++
		}
		if t.HasUtility(model.UtilityElectric) {
			tk.WithElectric++
		}
		miles += t.DistanceMiles
	}
	tk.AvgDistanceMiles = strconv.FormatFloat(mean(miles, len(res.Tickets)), 'f', 2, 64)

	dm := &s.Statistics.Damages
	var cost int
	for _, d := range res.Damages {
		switch d.Severity {
		case model.SeverityCritical:
			dm.Critical++
		case model.SeverityMajor:
			dm.Major++
		case model.SeverityMinor:
			dm.Minor++
		}
		switch d.ResponsibleParty {
		case model.PartyExcavator:
			dm.ExcavatorFault++
		case model.PartyLocator:
			dm.LocatorFault++
		}
		cost += d.Costs.Total
	}
	dm.TotalCost = Dollars(cost)
	var avg int
	if len(res.Damages) > 0 {
		avg = int(float64(cost)/float64(len(res.Damages)) + 0.5)
	}
	dm.AvgCost = Dollars(avg)

	return s
}

// Dollars formats whole dollars with US digit grouping, e.g. $1,234,567.
func Dollars(n int) string {
	return printer.Sprintf("$%d", n)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
