package seed

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/model"
	"github.com/aegis-locate/aegis-seed/internal/sampler"
)

const feetPerMile = 5280

var ticketTypeWeights = []sampler.Choice[model.TicketType]{
	{Value: model.TicketRoutine, Weight: 85},
	{Value: model.TicketNonCompliant, Weight: 10},
	{Value: model.TicketEmergency, Weight: 5},
}

var excavationMethodWeights = []sampler.Choice[string]{
	{Value: "mechanical", Weight: 60},
	{Value: "boring", Weight: 20},
	{Value: "trenching", Weight: 15},
	{Value: "hand", Weight: 5},
}

// Tickets returns count locate requests filed by excavators drawn uniformly from the pool.
// Ticket numbers run TX-<year>-100000 upward in generation order.
func (g *Generator) Tickets(count int, excavators []model.Excavator) ([]model.Ticket, error) {
	if len(excavators) == 0 {
		return nil, eris.Wrap(ErrMissingDependency, "seed: tickets need excavators")
	}

	out := make([]model.Ticket, 0, count)
	for i := range count {
		t, err := g.ticket(i, sampler.Element(g.rng, excavators))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (g *Generator) ticket(seq int, exc model.Excavator) (model.Ticket, error) {
	r := g.rng
	typ := sampler.Pick(r, ticketTypeWeights)

	location := geo.RandomPoint(r, geo.ServiceArea)
	distance := sampler.FloatRange(r, 0.05, 1.5, 0.01)
	boundary, err := geo.CorridorPolygon(location, distance, geo.RandomBearing(r))
	if err != nil {
		return model.Ticket{}, eris.Wrapf(err, "seed: corridor for ticket %d", seq)
	}

	utilities := g.utilityTypes(exc.RiskProfile, typ)
	workType := sampler.Element(r, workTypes)

	requested := g.past(30 * day)
	due := requested.Add(typ.DueWindow())

	depth := model.DepthUnknown
	if sampler.Bool(r, 0.5) {
		depth = model.DepthFeet(sampler.IntRange(r, 2, 10))
	}

	remarks := ""
	if sampler.Bool(r, 0.3) {
		remarks = sampler.Element(r, ticketRemarks)
	}

	return model.Ticket{
		ID:                     g.newID(),
		TicketNumber:           fmt.Sprintf("TX-%d-%06d", g.now.Year(), 100000+seq),
		Type:                   typ,
		Status:                 model.TicketStatusPending,
		Priority:               typ.Priority(),
		Address:                g.streetAddress(ticketStreets),
		NearestIntersection:    g.intersection(),
		Location:               location,
		BoundaryBox:            boundary,
		County:                 serviceCounty,
		LocationType:           sampler.Element(r, locationTypes),
		WorkType:               workType,
		WorkToBegin:            dateOnly(due),
		WorkDurationDays:       sampler.IntRange(r, 1, 30),
		WorkDescription:        g.workDescription(workType, utilities),
		DistanceMiles:          distance,
		ExcavationExtentFeet:   int(math.Round(distance * feetPerMile)),
		ExcavationDepthFeet:    depth,
		ExcavationMethod:       sampler.Pick(r, excavationMethodWeights),
		UtilityTypes:           utilities,
		FacilityOwnersNotified: notifiedOwners(utilities),
		ExcavatorID:            exc.ID,
		ExcavatorCompany:       exc.CompanyName,
		CallerName:             g.faker.Name(),
		CallerPhone:            g.phone(),
		WhiteLined:             sampler.Bool(r, 0.7),
		MarkingInstructions:    sampler.Element(r, markingInstructions),
		Remarks:                remarks,
		Assessment:             model.Unassessed(),
		RequestedDate:          requested,
		DueDate:                due,
		CreatedAt:              requested,
		UpdatedAt:              requested,
	}, nil
}

// complexity of the work implied by who is digging and how urgently.
type complexity int

const (
	complexityModerate complexity = iota
	complexitySimple
	complexityComplex
)

func ticketComplexity(profile model.RiskProfile, typ model.TicketType) complexity {
	switch {
	case profile == model.RiskHigh && typ == model.TicketEmergency:
		return complexityComplex
	case profile == model.RiskExcellent:
		return complexitySimple
	default:
		return complexityModerate
	}
}

// utilityTypes draws a non-empty set of distinct utilities. Complex work names 3-5, simple
// work 1-2 and the rest 1-4; outside simple work gas or electric is seeded 40% of the time.
func (g *Generator) utilityTypes(profile model.RiskProfile, typ model.TicketType) []model.Utility {
	r := g.rng
	cx := ticketComplexity(profile, typ)

	var count int
	switch cx {
	case complexityComplex:
		count = sampler.IntRange(r, 3, 5)
	case complexitySimple:
		count = sampler.IntRange(r, 1, 2)
	default:
		count = sampler.IntRange(r, 1, 4)
	}

	var out []model.Utility
	if sampler.Bool(r, 0.4) && cx != complexitySimple {
		out = append(out, sampler.Element(r, []model.Utility{model.UtilityGas, model.UtilityElectric}))
	}

	rest := make([]model.Utility, 0, len(model.TicketUtilities))
	for _, u := range model.TicketUtilities {
		if !slices.Contains(out, u) {
			rest = append(rest, u)
		}
	}
	return append(out, sampler.Elements(r, rest, max(1, count-len(out)))...)
}

// notifiedOwners lists each facility owner once, in utility order.
func notifiedOwners(utilities []model.Utility) []string {
	out := []string{}
	for _, u := range model.TicketUtilities {
		if !slices.Contains(utilities, u) {
			continue
		}
		for _, owner := range facilityOwners[u] {
			if !slices.Contains(out, owner) {
				out = append(out, owner)
			}
		}
	}
	return out
}

func (g *Generator) streetAddress(streets []string) string {
	return fmt.Sprintf("%d %s, %s, %s %s",
		sampler.IntRange(g.rng, 100, 9999), sampler.Element(g.rng, streets), serviceCity, serviceState, g.zip())
}

func (g *Generator) intersection() string {
	pair := sampler.Elements(g.rng, intersectionStreets, 2)
	return pair[0] + " & " + pair[1]
}

func (g *Generator) workDescription(workType string, utilities []model.Utility) string {
	names := make([]string, len(utilities))
	for i, u := range utilities {
		names[i] = string(u)
	}
	first := names[0]

	var templates []string
	switch workType {
	case "NEW INSTALL":
		both := first
		if len(names) > 1 {
			both = strings.Join(names, " and ")
		}
		templates = []string{
			fmt.Sprintf("Installing new %s service line from main to building", first),
			fmt.Sprintf("New %s line installation for residential property", first),
			fmt.Sprintf("Installing %s infrastructure for new development", both),
		}
	case "REPAIR":
		templates = []string{
			fmt.Sprintf("Repair %s line leak", first),
			fmt.Sprintf("Emergency %s service line repair", first),
			fmt.Sprintf("%s line maintenance and repair work", strings.ToUpper(first)),
		}
	case "BORING":
		templates = []string{
			fmt.Sprintf("Directional boring for %s conduit installation", first),
			fmt.Sprintf("Horizontal boring under roadway for %s line", first),
			fmt.Sprintf("Boring operation for underground %s installation", strings.Join(names, "/")),
		}
	case "DEMOLITION":
		templates = []string{
			fmt.Sprintf("Building demolition - identify and cap all %s services", strings.Join(names, ", ")),
			"Demolition of structure - utility disconnection required",
		}
	case "FOUNDATION":
		templates = []string{
			"Foundation excavation for new construction",
			"Pier drilling for building foundation",
			"Excavation for building foundation and basement",
		}
	default:
		templates = []string{
			fmt.Sprintf("General excavation for %s utility access", strings.Join(names, " and ")),
			fmt.Sprintf("Excavation to expose and verify %s utilities", first),
			fmt.Sprintf("Trenching for %s line replacement", first),
		}
	}
	return sampler.Element(g.rng, templates)
}

// Demo ticket numbers. Each scenario is tied to one excavator risk profile.
const (
	DemoCriticalRisk = "TX-2025-999001"
	DemoLowRisk      = "TX-2025-500123"
	DemoComplex      = "TX-2025-750456"
)

// demoScenario is the hand-authored part of a demo ticket; the rest is drawn or derived.
type demoScenario struct {
	name          string
	profile       model.RiskProfile
	ticket        model.Ticket
	startsIn      time.Duration
	callerPhone   string
	distanceMiles float64
}

func demoScenarios() []demoScenario {
	return []demoScenario{
		{
			name:    "critical_risk",
			profile: model.RiskHigh,
			ticket: model.Ticket{
				TicketNumber:           DemoCriticalRisk,
				Type:                   model.TicketEmergency,
				Address:                "1500 Medical Dr, San Antonio, TX 78229",
				NearestIntersection:    "Medical Dr & Fredericksburg Rd",
				Location:               geo.NewPoint(-98.4850, 29.4800),
				LocationType:           "commercial",
				WorkType:               "EMERGENCY REPAIR",
				WorkDurationDays:       1,
				WorkDescription:        "Emergency gas leak repair near hospital access road",
				ExcavationDepthFeet:    model.DepthFeet(6),
				ExcavationMethod:       "mechanical",
				UtilityTypes:           []model.Utility{model.UtilityGas, model.UtilityElectric},
				FacilityOwnersNotified: []string{"CPS Energy"},
				WhiteLined:             false,
				MarkingInstructions:    "URGENT - Mark all gas and electric lines immediately",
				Remarks:                "Active gas leak reported. Coordinate with CPS Energy gas ops before excavation.",
			},
			callerPhone:   "210-555-0911",
			distanceMiles: 0.8,
		},
		{
			name:    "low_risk",
			profile: model.RiskExcellent,
			ticket: model.Ticket{
				TicketNumber:           DemoLowRisk,
				Type:                   model.TicketRoutine,
				Address:                "3456 Residential Ln, San Antonio, TX 78230",
				NearestIntersection:    "Residential Ln & Oak Park Dr",
				Location:               geo.NewPoint(-98.4500, 29.5200),
				LocationType:           "residential",
				WorkType:               "NEW INSTALL",
				WorkDurationDays:       3,
				WorkDescription:        "Installing new telecom service line to residence",
				ExcavationDepthFeet:    model.DepthFeet(3),
				ExcavationMethod:       "hand",
				UtilityTypes:           []model.Utility{model.UtilityTelecom},
				FacilityOwnersNotified: []string{"AT&T"},
				WhiteLined:             true,
				MarkingInstructions:    "Mark telecom line along proposed route",
				Remarks:                "Homeowner will be present during work",
			},
			startsIn:      2 * day,
			callerPhone:   "210-555-0100",
			distanceMiles: 0.15,
		},
		{
			name:    "complex_multi_utility",
			profile: model.RiskAverage,
			ticket: model.Ticket{
				TicketNumber:        DemoComplex,
				Type:                model.TicketRoutine,
				Address:             "789 Downtown Plaza, San Antonio, TX 78205",
				NearestIntersection: "Commerce St & Alamo St",
				Location:            geo.NewPoint(-98.4900, 29.4250),
				LocationType:        "commercial",
				WorkType:            "EXCAVATION",
				WorkDurationDays:    14,
				WorkDescription:     "Underground utility corridor excavation for new downtown development",
				ExcavationDepthFeet: model.DepthFeet(8),
				ExcavationMethod:    "mechanical",
				UtilityTypes: []model.Utility{
					model.UtilityGas, model.UtilityElectric, model.UtilityWater, model.UtilityTelecom, model.UtilitySewer,
				},
				FacilityOwnersNotified: []string{"CPS Energy", "SAWS", "AT&T", "Verizon"},
				WhiteLined:             true,
				MarkingInstructions:    "Mark all utilities along entire corridor - coordinate with all utility owners",
				Remarks:                "High traffic area - work during off-peak hours. Multiple utility crossings expected.",
			},
			startsIn:      3 * day,
			callerPhone:   "210-555-0750",
			distanceMiles: 1.2,
		},
	}
}

// DemoIDs names each demo scenario by its ticket number, for the run summary.
func DemoIDs() map[string]string {
	out := make(map[string]string, 3)
	for _, s := range demoScenarios() {
		out[s.name] = s.ticket.TicketNumber
	}
	return out
}

// Demos builds the three hand-authored scenarios against the first excavator of each
// required risk profile. A scenario whose profile is absent from the pool is skipped and
// logged; only an empty pool is an error.
func (g *Generator) Demos(excavators []model.Excavator) ([]model.Ticket, error) {
	if len(excavators) == 0 {
		return nil, eris.Wrap(ErrMissingDependency, "seed: demo tickets need excavators")
	}

	log := zap.L().With(zap.String("stage", "tickets"))
	out := make([]model.Ticket, 0, 3)
	for _, s := range demoScenarios() {
		idx := slices.IndexFunc(excavators, func(e model.Excavator) bool { return e.RiskProfile == s.profile })
		if idx < 0 {
			log.Warn("skipping demo scenario: no excavator with required risk profile",
				zap.String("scenario", s.name), zap.String("risk_profile", string(s.profile)))
			continue
		}

		t, err := g.demoTicket(s, excavators[idx])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (g *Generator) demoTicket(s demoScenario, exc model.Excavator) (model.Ticket, error) {
	t := s.ticket
	boundary, err := geo.CorridorPolygon(t.Location, s.distanceMiles, geo.RandomBearing(g.rng))
	if err != nil {
		return model.Ticket{}, eris.Wrapf(err, "seed: corridor for demo %s", t.TicketNumber)
	}

	t.ID = g.newID()
	t.Status = model.TicketStatusPending
	t.Priority = t.Type.Priority()
	t.BoundaryBox = boundary
	t.County = serviceCounty
	t.WorkToBegin = dateOnly(g.now.Add(s.startsIn))
	t.DistanceMiles = s.distanceMiles
	t.ExcavationExtentFeet = int(math.Round(s.distanceMiles * feetPerMile))
	t.UtilityTypes = slices.Clone(t.UtilityTypes)
	t.FacilityOwnersNotified = slices.Clone(t.FacilityOwnersNotified)
	t.ExcavatorID = exc.ID
	t.ExcavatorCompany = exc.CompanyName
	t.CallerName = g.faker.Name()
	t.CallerPhone = s.callerPhone
	t.Assessment = model.Unassessed()
	t.RequestedDate = g.now
	t.DueDate = g.now.Add(t.Type.DueWindow())
	t.CreatedAt = g.now
	t.UpdatedAt = g.now
	return t, nil
}
