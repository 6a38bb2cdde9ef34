package model

import (
	"time"

	"github.com/aegis-locate/aegis-seed/internal/geo"
)

// Severity grades a damage incident.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// Party is who a damage is attributed to.
type Party string

const (
	PartyExcavator    Party = "excavator"
	PartyLocator      Party = "locator"
	PartyUtilityOwner Party = "utility_owner"
	PartyUnknown      Party = "unknown"
)

// LocatorCompany is the locating contractor on every incident.
const LocatorCompany = "ULS Locating Service"

// Damage is a historical utility strike.
type Damage struct {
	ID                     string       `json:"id" yaml:"id"`
	IncidentNumber         string       `json:"incident_number" yaml:"incident_number"`
	Date                   string       `json:"date" yaml:"date"`
	Location               geo.Point    `json:"location" yaml:"location"`
	Address                string       `json:"address" yaml:"address"`
	Hotspot                bool         `json:"hotspot" yaml:"hotspot"`
	TicketID               *string      `json:"ticket_id" yaml:"ticket_id"`
	TicketNumber           *string      `json:"ticket_number" yaml:"ticket_number"`
	ExcavatorID            string       `json:"excavator_id" yaml:"excavator_id"`
	ExcavatorCompany       string       `json:"excavator_company" yaml:"excavator_company"`
	LocatorCompany         string       `json:"locator_company" yaml:"locator_company"`
	UtilityType            Utility      `json:"utility_type" yaml:"utility_type"`
	UtilityOwner           string       `json:"utility_owner" yaml:"utility_owner"`
	LineMaterial           string       `json:"line_material" yaml:"line_material"`
	LineDiameterInches     *int         `json:"line_diameter_inches" yaml:"line_diameter_inches"`
	LineDepthFeet          float64      `json:"line_depth_feet" yaml:"line_depth_feet"`
	DamageType             string       `json:"damage_type" yaml:"damage_type"`
	Severity               Severity     `json:"severity" yaml:"severity"`
	ResponsibleParty       Party        `json:"responsible_party" yaml:"responsible_party"`
	RootCause              string       `json:"root_cause" yaml:"root_cause"`
	DetailedCause          string       `json:"detailed_cause" yaml:"detailed_cause"`
	Consequences           Consequences `json:"consequences" yaml:"consequences"`
	Costs                  Costs        `json:"costs" yaml:"costs"`
	InvestigationStatus    string       `json:"investigation_status" yaml:"investigation_status"`
	RegulatoryNotification bool         `json:"regulatory_notification" yaml:"regulatory_notification"`
	RegulatoryCaseNumber   *string      `json:"regulatory_case_number" yaml:"regulatory_case_number"`
	LessonsLearned         string       `json:"lessons_learned" yaml:"lessons_learned"`
	CorrectiveActions      []string     `json:"corrective_actions" yaml:"corrective_actions"`
	PhotosAvailable        bool         `json:"photos_available" yaml:"photos_available"`
	ReportFiled            bool         `json:"report_filed" yaml:"report_filed"`
	ReportDate             string       `json:"report_date" yaml:"report_date"`
	CreatedAt              time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Consequences are the field effects of a damage, scaled by severity.
type Consequences struct {
	ServiceDisruption   bool `json:"service_disruption" yaml:"service_disruption"`
	CustomersAffected   int  `json:"customers_affected" yaml:"customers_affected"`
	OutageDurationHours int  `json:"outage_duration_hours" yaml:"outage_duration_hours"`
	EvacuationRequired  bool `json:"evacuation_required" yaml:"evacuation_required"`
	Injuries            int  `json:"injuries" yaml:"injuries"`
	Fatalities          int  `json:"fatalities" yaml:"fatalities"`
	PropertyDamage      bool `json:"property_damage" yaml:"property_damage"`
	EnvironmentalImpact bool `json:"environmental_impact" yaml:"environmental_impact"`
}

// Costs are whole dollars. Total always equals Sum().
type Costs struct {
	Repair          int `json:"repair" yaml:"repair"`
	RegulatoryFines int `json:"regulatory_fines" yaml:"regulatory_fines"`
	ServiceCredits  int `json:"service_credits" yaml:"service_credits"`
	IndirectCosts   int `json:"indirect_costs" yaml:"indirect_costs"`
	Total           int `json:"total" yaml:"total"`
}

// Sum adds the cost components.
func (c Costs) Sum() int {
	return c.Repair + c.RegulatoryFines + c.ServiceCredits + c.IndirectCosts
}

// RequiresRegulatoryNotification is true for critical incidents and every gas strike.
func RequiresRegulatoryNotification(s Severity, u Utility) bool {
	return s == SeverityCritical || u == UtilityGas
}
