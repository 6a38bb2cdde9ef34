package seed

import "github.com/aegis-locate/aegis-seed/internal/model"

const (
	serviceCity   = "San Antonio"
	serviceState  = "TX"
	serviceCounty = "BEXAR"
	phoneFormat   = "210-###-####"
)

var constructionSuffixes = []string{
	"Construction", "Excavation", "Contractors", "Utilities",
	"Development", "Services", "Solutions", "Group",
	"Enterprises", "Corp", "Company", "LLC",
}

var excavatorEquipment = []string{"backhoe", "excavator", "trencher", "dozer", "loader", "skid_steer"}

var excavatorCertifications = []string{"OSHA 10", "OSHA 30", "Trench Safety", "Confined Space", "First Aid"}

var locatorCertifications = []string{"OUPS", "NULCA", "Gas", "Electric", "Fiber", "OSHA 10", "OSHA 30"}

var locatorSpecialties = []string{"gas", "electric", "water", "telecom", "fiber_optics", "high_voltage"}

var trainingCourses = []string{
	"Basic Utility Locating",
	"Advanced Gas Line Locating",
	"High-Voltage Electric Safety",
	"Fiber Optic Identification",
	"Ground Penetrating Radar Operation",
	"Excavation Safety",
	"Customer Service Excellence",
	"GIS Mapping Systems",
}

var trainingInstructors = []string{"CPS Energy", "OUPS", "NULCA", "Internal Training"}

var notableExperiences = []string{
	"Completed 50+ tickets for hospital expansion project",
	"Handled 3 emergency gas leak locates without incident",
	"Trained 5 junior locators in gas line detection",
	"Perfect safety record for 24 consecutive months",
	"Successfully located utilities at 15+ complex industrial sites",
	"Zero damage rate on 200+ consecutive tickets",
	"Specialized in downtown congested area locating",
	"Expert in difficult soil conditions and deep utilities",
}

var ticketStreets = []string{
	"Main St", "Broadway", "Commerce St", "Houston St", "McCullough Ave",
	"San Pedro Ave", "Flores St", "Zarzamora St", "Fredericksburg Rd",
	"Bandera Rd", "Blanco Rd", "Austin Hwy", "New Braunfels Ave",
	"Southton Rd", "Military Dr", "Culebra Rd", "Marbach Rd",
	"Wurzbach Rd", "Bitters Rd", "Stone Oak Pkwy",
}

var intersectionStreets = []string{
	"Main St", "Commerce St", "Houston St", "Flores St", "San Pedro Ave",
	"McCullough Ave", "Broadway", "Alamo St", "Travis St", "Navarro St",
}

// damageStreets is the downtown subset damages are addressed on.
var damageStreets = ticketStreets[:9]

var workTypes = []string{
	"NEW INSTALL", "REPAIR", "MAINTENANCE", "DEMOLITION",
	"BORING", "EXCAVATION", "TRENCHING", "FOUNDATION",
}

var locationTypes = []string{"residential", "commercial", "industrial", "rural"}

var markingInstructions = []string{
	"Mark all utilities in work area",
	"Mark utilities along proposed route",
	"Mark entire property",
	"Mark utilities at excavation points only",
}

var ticketRemarks = []string{
	"Previous locate performed 8 months ago",
	"Multiple utilities in small area",
	"Near school zone",
	"Work during business hours only",
	"Coordinate with property owner",
	"Limited access - narrow alley",
	"",
}

// facilityOwners maps a utility to the companies notified for it.
var facilityOwners = map[model.Utility][]string{
	model.UtilityGas:      {"CPS Energy"},
	model.UtilityElectric: {"CPS Energy"},
	model.UtilityWater:    {"SAWS"},
	model.UtilitySewer:    {"SAWS"},
	model.UtilityTelecom:  {"AT&T", "Verizon"},
	model.UtilityFiber:    {"AT&T", "Google Fiber"},
	model.UtilityCable:    {"Spectrum"},
}

type causeEntry struct {
	Code        string
	Description string
}

var rootCauses = map[model.Party][]causeEntry{
	model.PartyExcavator: {
		{"excavated_without_ticket", "Excavator began work without valid locate ticket"},
		{"didnt_wait_for_locates", "Excavator did not wait for locates to be completed before digging"},
		{"ignored_markings", "Excavator ignored or removed utility markings"},
		{"excavated_outside_tolerance", "Excavated outside the marked tolerance zone"},
		{"improper_excavation_method", "Used improper excavation method near marked utilities"},
		{"failed_to_expose_verify", "Failed to hand-dig and expose utilities before mechanical excavation"},
	},
	model.PartyLocator: {
		{"missed_utility", "Locator failed to identify and mark utility"},
		{"inaccurate_marking", "Utility marking was significantly off from actual location"},
		{"incomplete_locate", "Locator did not complete the entire scope of the ticket"},
		{"wrong_depth_marked", "Marked depth information was incorrect"},
	},
	model.PartyUtilityOwner: {
		{"inaccurate_records", "Utility owner records showed incorrect location"},
		{"undocumented_utility", "Utility not shown on owner records or maps"},
		{"shallow_utility", "Utility was shallower than minimum depth requirements"},
		{"poor_maintenance", "Utility condition contributed to failure (corrosion, age)"},
	},
	model.PartyUnknown: {
		{"unknown", "Root cause could not be determined from available information"},
	},
}

// lessonsLearned is keyed by root cause code. %s, where present, takes the utility type.
var lessonsLearned = map[string]string{
	"excavated_without_ticket": "Emphasized importance of filing locate tickets before starting work. Enhanced pre-job safety meetings.",
	"didnt_wait_for_locates":   "Reinforced requirement to wait for all locates to be completed before excavation begins.",
	"ignored_markings":         "Additional training on utility marking identification and respect for marked boundaries.",
	"inaccurate_records":       "Updated GIS records for %s utilities in this area. Flagged area for field verification on future tickets.",
	"missed_utility":           "Additional locator training scheduled. Implemented secondary verification for complex areas.",
	"shallow_utility":          "Utility was shallower than minimum depth standards. Area flagged for future tickets. Consider raising line.",
}

const genericLesson = "Standard corrective procedures implemented."

var correctiveActions = map[string][]string{
	"excavated_without_ticket": {
		"Excavator counseled on one-call requirements",
		"Enhanced excavator education program implemented",
		"Penalty assessed per state regulations",
	},
	"didnt_wait_for_locates": {
		"Excavator required to complete safety training",
		"Pre-job conference now mandatory for this excavator",
		"Added to watch list for future tickets",
	},
	"ignored_markings": {
		"Excavator suspended from work pending investigation",
		"Required to complete utility damage prevention training",
		"Increased supervision required for future work",
	},
	"inaccurate_records": {
		"GIS records updated with accurate location",
		"Field survey completed for surrounding area",
		"Warning flag added for future tickets in this location",
	},
	"missed_utility": {
		"Locator retraining completed",
		"Implemented peer review for complex tickets",
		"Enhanced quality control procedures",
	},
}

const genericCorrectiveAction = "Standard corrective procedures implemented"

var damageTypes = []string{"strike", "nick", "scrape", "complete_break"}

var investigationStatuses = []string{"closed", "under_review", "pending"}

var lineMaterials = map[model.Utility][]string{
	model.UtilityGas:      {"steel", "plastic", "cast_iron"},
	model.UtilityElectric: {"copper", "aluminum"},
	model.UtilityWater:    {"PVC", "cast_iron", "copper", "steel"},
	model.UtilitySewer:    {"PVC", "clay", "cast_iron"},
	model.UtilityTelecom:  {"copper", "fiber_optic"},
}

// lineDiameters has no electric entry: conduit diameter is not recorded for power.
var lineDiameters = map[model.Utility][]int{
	model.UtilityGas:     {2, 4, 6, 8, 12},
	model.UtilityWater:   {4, 6, 8, 12, 16},
	model.UtilitySewer:   {6, 8, 10, 12},
	model.UtilityTelecom: {1, 2, 4},
}

const caseNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
