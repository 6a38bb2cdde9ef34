package seed

import (
	"math"

	"github.com/aegis-locate/aegis-seed/internal/model"
	"github.com/aegis-locate/aegis-seed/internal/sampler"
)

var riskProfileWeights = []sampler.Choice[model.RiskProfile]{
	{Value: model.RiskHigh, Weight: 15},
	{Value: model.RiskExcellent, Weight: 20},
	{Value: model.RiskAverage, Weight: 65},
}

// Excavators returns count excavator companies. Records are independent of each other.
func (g *Generator) Excavators(count int) []model.Excavator {
	out := make([]model.Excavator, 0, count)
	for range count {
		out = append(out, g.excavator())
	}
	return out
}

func (g *Generator) excavator() model.Excavator {
	r := g.rng
	profile := sampler.Pick(r, riskProfileWeights)

	return model.Excavator{
		ID:                g.newID(),
		CompanyName:       g.faker.Company() + " " + sampler.Element(r, constructionSuffixes),
		ContactName:       g.faker.Name(),
		Phone:             g.phone(),
		Email:             g.email(),
		Address:           g.faker.Street(),
		City:              serviceCity,
		State:             serviceState,
		Zip:               g.zip(),
		YearsInBusiness:   sampler.IntRange(r, 1, 30),
		ComplianceMetrics: g.complianceMetrics(profile),
		DamageHistory:     g.damageHistory(profile),
		EquipmentProfile: model.EquipmentProfile{
			PrimaryEquipment:     sampler.ElementsRange(r, excavatorEquipment, 2, 4),
			UsesVacuumExcavation: sampler.Bool(r, 0.3),
			UsesHydroExcavation:  sampler.Bool(r, 0.2),
			ExcavationMethod: sampler.Pick(r, []sampler.Choice[string]{
				{Value: "mechanical", Weight: 70},
				{Value: "boring", Weight: 20},
				{Value: "trenchless", Weight: 10},
			}),
		},
		Certifications: sampler.ElementsRange(r, excavatorCertifications, 1, 4),
		InsuranceStatus: sampler.Pick(r, []sampler.Choice[string]{
			{Value: "active", Weight: 90},
			{Value: "lapsed", Weight: 10},
		}),
		RiskProfile: profile,
		CreatedAt:   g.past(years(3)),
	}
}

type complianceRange struct {
	scoreMin, scoreMax int
	late, noShow, pre  [2]float64
}

var complianceRanges = map[model.RiskProfile]complianceRange{
	model.RiskHigh:      {40, 70, [2]float64{0.15, 0.35}, [2]float64{0.10, 0.25}, [2]float64{0.30, 0.60}},
	model.RiskExcellent: {90, 100, [2]float64{0.00, 0.05}, [2]float64{0.00, 0.03}, [2]float64{0.85, 1.00}},
	model.RiskAverage:   {70, 90, [2]float64{0.05, 0.15}, [2]float64{0.03, 0.10}, [2]float64{0.60, 0.85}},
}

func (g *Generator) complianceMetrics(profile model.RiskProfile) model.ComplianceMetrics {
	r := g.rng
	cr := complianceRanges[profile]

	score := sampler.IntRange(r, cr.scoreMin, cr.scoreMax)
	lateRate := sampler.FloatRange(r, cr.late[0], cr.late[1], 0.01)
	noShow := sampler.FloatRange(r, cr.noShow[0], cr.noShow[1], 0.01)
	preMark := sampler.FloatRange(r, cr.pre[0], cr.pre[1], 0.01)
	filed := sampler.IntRange(r, 50, 800)

	return model.ComplianceMetrics{
		ComplianceScore:     score,
		OneCallTicketsFiled: filed,
		LateTickets:         int(math.Floor(float64(filed) * lateRate)),
		NoShowRate:          noShow,
		PreMarkRate:         preMark,
	}
}

func (g *Generator) damageHistory(profile model.RiskProfile) model.DamageHistory {
	r := g.rng

	var d6, d12 int
	switch profile {
	case model.RiskHigh:
		d6 = sampler.Pick(r, []sampler.Choice[int]{
			{Value: 3, Weight: 30},
			{Value: 4, Weight: 40},
			{Value: 5, Weight: 20},
			{Value: sampler.IntRange(r, 6, 10), Weight: 10},
		})
		d12 = d6 + sampler.IntRange(r, 2, 6)
	case model.RiskExcellent:
	default:
		d6 = sampler.Pick(r, []sampler.Choice[int]{
			{Value: 0, Weight: 60},
			{Value: 1, Weight: 30},
			{Value: 2, Weight: 8},
			{Value: 3, Weight: 2},
		})
		d12 = d6 + sampler.Pick(r, []sampler.Choice[int]{
			{Value: 0, Weight: 50},
			{Value: 1, Weight: 30},
			{Value: 2, Weight: 15},
			{Value: 3, Weight: 5},
		})
	}

	d24, all := d12, d12
	if profile != model.RiskExcellent {
		d24 = d12 + sampler.IntRange(r, 0, 5)
		all = d24 + sampler.IntRange(r, 0, 15)
	}

	atFault := sampler.FloatRange(r, 0.50, 0.75, 0.01)
	if profile == model.RiskHigh {
		atFault = sampler.FloatRange(r, 0.80, 0.95, 0.01)
	}

	return model.DamageHistory{
		Damages6Mo:     d6,
		Damages12Mo:    d12,
		Damages24Mo:    d24,
		DamagesAllTime: all,
		ByUtilityType:  g.utilityCarveOut(all),
		BySeverity: model.SeverityTally{
			Minor:    int(math.Floor(float64(all) * 0.6)),
			Major:    int(math.Floor(float64(all) * 0.3)),
			Critical: int(math.Floor(float64(all) * 0.1)),
		},
		AtFaultRate:       atFault,
		DamageTrend:       damageTrend(d6, d12),
		LastDamageDaysAgo: g.lastDamageDaysAgo(d6, d12),
	}
}

// utilityCarveOut splits total across utilities: gas, electric and water each take up to
// a fixed share of what is left and telecom absorbs the remainder, so the parts always
// sum to total.
func (g *Generator) utilityCarveOut(total int) map[string]int {
	out := make(map[string]int, 4)
	remaining := total
	for _, share := range []struct {
		utility model.Utility
		frac    float64
	}{
		{model.UtilityGas, 0.4},
		{model.UtilityElectric, 0.4},
		{model.UtilityWater, 0.3},
	} {
		if remaining <= 0 {
			break
		}
		n := sampler.IntRange(g.rng, 0, int(math.Ceil(float64(remaining)*share.frac)))
		out[string(share.utility)] = n
		remaining -= n
	}
	out[string(model.UtilityTelecom)] = remaining
	return out
}

func damageTrend(d6, d12 int) model.DamageTrend {
	prior := d12 - d6
	switch {
	case d6 > prior:
		return model.TrendIncreasing
	case d6 < prior:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

func (g *Generator) lastDamageDaysAgo(d6, d12 int) *int {
	var n int
	switch {
	case d6 > 0:
		n = sampler.IntRange(g.rng, 5, 180)
	case d12 > 0:
		n = sampler.IntRange(g.rng, 181, 365)
	default:
		return nil
	}
	return &n
}
