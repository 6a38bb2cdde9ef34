package seed

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/model"
	"github.com/aegis-locate/aegis-seed/internal/sampler"
)

// damageRiskWeights biases which excavators appear in damages toward high-risk companies.
var damageRiskWeights = map[model.RiskProfile]float64{
	model.RiskHigh:      5,
	model.RiskAverage:   2,
	model.RiskExcellent: 0.5,
}

var damageUtilityWeights = []sampler.Choice[model.Utility]{
	{Value: model.UtilityGas, Weight: 35},
	{Value: model.UtilityElectric, Weight: 30},
	{Value: model.UtilityWater, Weight: 20},
	{Value: model.UtilityTelecom, Weight: 10},
	{Value: model.UtilitySewer, Weight: 5},
}

var severityWeights = []sampler.Choice[model.Severity]{
	{Value: model.SeverityMinor, Weight: 60},
	{Value: model.SeverityMajor, Weight: 30},
	{Value: model.SeverityCritical, Weight: 10},
}

var partyWeights = []sampler.Choice[model.Party]{
	{Value: model.PartyExcavator, Weight: 70},
	{Value: model.PartyLocator, Weight: 20},
	{Value: model.PartyUtilityOwner, Weight: 8},
	{Value: model.PartyUnknown, Weight: 2},
}

// ageBands skew incidents toward the recent past, in days.
var ageBands = []sampler.Choice[[2]int]{
	{Value: [2]int{0, 90}, Weight: 20},
	{Value: [2]int{91, 365}, Weight: 30},
	{Value: [2]int{366, 730}, Weight: 30},
	{Value: [2]int{731, 1095}, Weight: 20},
}

// Damages returns count historical incidents. excavators is required. tickets is optional:
// with a nil or empty pool no damage is cross-linked and a warning is logged.
func (g *Generator) Damages(count int, excavators []model.Excavator, tickets []model.Ticket) ([]model.Damage, error) {
	if len(excavators) == 0 {
		return nil, eris.Wrap(ErrMissingDependency, "seed: damages need excavators")
	}

	log := zap.L().With(zap.String("stage", "damages"))
	if len(tickets) == 0 {
		log.Warn("no ticket pool available, damages will not be linked to tickets")
	}

	pick := newExcavatorPicker(excavators)
	hotspots := geo.Hotspots(g.rng, g.spots)

	out := make([]model.Damage, 0, count)
	for i := range count {
		out = append(out, g.damage(i, pick.next(g.rng), hotspots, tickets))
	}
	return out, nil
}

// excavatorPicker draws a risk class by weight over the classes present, then an
// excavator uniformly within it.
type excavatorPicker struct {
	classes []sampler.Choice[model.RiskProfile]
	byClass map[model.RiskProfile][]model.Excavator
}

func newExcavatorPicker(excavators []model.Excavator) excavatorPicker {
	p := excavatorPicker{byClass: make(map[model.RiskProfile][]model.Excavator)}
	for _, e := range excavators {
		if _, seen := p.byClass[e.RiskProfile]; !seen {
			// Profiles outside the weight table are picked at unit weight.
			w, ok := damageRiskWeights[e.RiskProfile]
			if !ok {
				w = 1
			}
			p.classes = append(p.classes, sampler.Choice[model.RiskProfile]{Value: e.RiskProfile, Weight: w})
		}
		p.byClass[e.RiskProfile] = append(p.byClass[e.RiskProfile], e)
	}
	return p
}

func (p excavatorPicker) next(r sampler.Rand) model.Excavator {
	return sampler.Element(r, p.byClass[sampler.Pick(r, p.classes)])
}

func (g *Generator) damage(seq int, exc model.Excavator, hotspots []geo.Point, tickets []model.Ticket) model.Damage {
	r := g.rng

	hotspot := sampler.Bool(r, 0.3)
	location := geo.RandomPoint(r, geo.ServiceArea)
	if hotspot {
		location = sampler.Element(r, hotspots)
	}

	var ticketID, ticketNumber *string
	if len(tickets) > 0 && sampler.Bool(r, 0.4) {
		t := sampler.Element(r, tickets)
		ticketID, ticketNumber = &t.ID, &t.TicketNumber
	}

	utility := sampler.Pick(r, damageUtilityWeights)
	severity := sampler.Pick(r, severityWeights)
	party := sampler.Pick(r, partyWeights)
	cause := g.rootCause(party)

	band := sampler.Pick(r, ageBands)
	incident := g.now.AddDate(0, 0, -sampler.IntRange(r, band[0], band[1]))

	consequences := g.consequences(severity, utility)
	costs := g.costs(severity, consequences)

	var caseNumber *string
	if severity == model.SeverityCritical {
		cn := fmt.Sprintf("RRC-%d-%s", incident.Year(), g.alphanumeric(6))
		caseNumber = &cn
	}

	return model.Damage{
		ID:                     g.newID(),
		IncidentNumber:         fmt.Sprintf("DMG-%d-%04d", incident.Year(), 1000+seq),
		Date:                   dateOnly(incident),
		Location:               location,
		Address:                g.streetAddress(damageStreets),
		Hotspot:                hotspot,
		TicketID:               ticketID,
		TicketNumber:           ticketNumber,
		ExcavatorID:            exc.ID,
		ExcavatorCompany:       exc.CompanyName,
		LocatorCompany:         model.LocatorCompany,
		UtilityType:            utility,
		UtilityOwner:           g.utilityOwner(utility),
		LineMaterial:           g.lineMaterial(utility),
		LineDiameterInches:     g.lineDiameter(utility),
		LineDepthFeet:          sampler.FloatRange(r, 2, 8, 0.5),
		DamageType:             sampler.Element(r, damageTypes),
		Severity:               severity,
		ResponsibleParty:       party,
		RootCause:              cause.Code,
		DetailedCause:          cause.Description,
		Consequences:           consequences,
		Costs:                  costs,
		InvestigationStatus:    sampler.Element(r, investigationStatuses),
		RegulatoryNotification: model.RequiresRegulatoryNotification(severity, utility),
		RegulatoryCaseNumber:   caseNumber,
		LessonsLearned:         lessonFor(cause.Code, utility),
		CorrectiveActions:      correctiveActionsFor(cause.Code),
		PhotosAvailable:        sampler.Bool(r, 0.6),
		ReportFiled:            true,
		ReportDate:             dateOnly(incident.Add(3 * day)),
		CreatedAt:              incident,
		UpdatedAt:              g.now,
	}
}

func (g *Generator) rootCause(party model.Party) causeEntry {
	causes, ok := rootCauses[party]
	if !ok {
		causes = rootCauses[model.PartyUnknown]
	}
	return sampler.Element(g.rng, causes)
}

func (g *Generator) consequences(severity model.Severity, utility model.Utility) model.Consequences {
	r := g.rng
	c := model.Consequences{
		ServiceDisruption:   severity != model.SeverityMinor,
		PropertyDamage:      severity == model.SeverityCritical || sampler.Bool(r, 0.3),
		EnvironmentalImpact: utility == model.UtilityGas && severity == model.SeverityCritical,
	}

	switch severity {
	case model.SeverityCritical:
		c.CustomersAffected = sampler.IntRange(r, 100, 5000)
		c.OutageDurationHours = sampler.IntRange(r, 6, 72)
		c.EvacuationRequired = utility == model.UtilityGas && sampler.Bool(r, 0.5)
		c.Injuries = sampler.Pick(r, []sampler.Choice[int]{
			{Value: 0, Weight: 70},
			{Value: 1, Weight: 20},
			{Value: 2, Weight: 8},
			{Value: sampler.IntRange(r, 3, 10), Weight: 2},
		})
	case model.SeverityMajor:
		c.CustomersAffected = sampler.IntRange(r, 10, 500)
		c.OutageDurationHours = sampler.IntRange(r, 2, 24)
	default:
		c.ServiceDisruption = sampler.Bool(r, 0.2)
		if sampler.Bool(r, 0.2) {
			c.CustomersAffected = sampler.IntRange(r, 1, 20)
		}
		if sampler.Bool(r, 0.2) {
			c.OutageDurationHours = sampler.IntRange(r, 1, 4)
		}
	}
	return c
}

type costTier struct {
	repair     [2]int
	fines      [2]int
	creditRate [2]int
}

var costTiers = map[model.Severity]costTier{
	model.SeverityCritical: {[2]int{50000, 500000}, [2]int{25000, 250000}, [2]int{25, 100}},
	model.SeverityMajor:    {[2]int{10000, 100000}, [2]int{5000, 50000}, [2]int{10, 50}},
	model.SeverityMinor:    {[2]int{1000, 15000}, [2]int{0, 0}, [2]int{5, 25}},
}

// costs draws severity-tiered components. Indirect costs are 20% of repair and the total
// is their exact sum.
func (g *Generator) costs(severity model.Severity, c model.Consequences) model.Costs {
	r := g.rng
	tier := costTiers[severity]

	out := model.Costs{
		Repair:          sampler.IntRange(r, tier.repair[0], tier.repair[1]),
		RegulatoryFines: sampler.IntRange(r, tier.fines[0], tier.fines[1]),
	}
	out.ServiceCredits = c.CustomersAffected * sampler.IntRange(r, tier.creditRate[0], tier.creditRate[1])
	out.IndirectCosts = out.Repair / 5
	out.Total = out.Sum()
	return out
}

func (g *Generator) utilityOwner(u model.Utility) string {
	switch u {
	case model.UtilityGas, model.UtilityElectric:
		return "CPS Energy"
	case model.UtilityWater, model.UtilitySewer:
		return "SAWS"
	case model.UtilityTelecom:
		return sampler.Element(g.rng, []string{"AT&T", "Verizon"})
	default:
		return "Unknown"
	}
}

func (g *Generator) lineMaterial(u model.Utility) string {
	materials, ok := lineMaterials[u]
	if !ok {
		return "unknown"
	}
	return sampler.Element(g.rng, materials)
}

func (g *Generator) lineDiameter(u model.Utility) *int {
	sizes, ok := lineDiameters[u]
	if !ok {
		return nil
	}
	d := sampler.Element(g.rng, sizes)
	return &d
}

func (g *Generator) alphanumeric(n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(caseNumberAlphabet[g.rng.IntN(len(caseNumberAlphabet))])
	}
	return b.String()
}

func lessonFor(code string, u model.Utility) string {
	tmpl, ok := lessonsLearned[code]
	if !ok {
		return genericLesson
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, u)
	}
	return tmpl
}

func correctiveActionsFor(code string) []string {
	actions, ok := correctiveActions[code]
	if !ok {
		return []string{genericCorrectiveAction}
	}
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}
