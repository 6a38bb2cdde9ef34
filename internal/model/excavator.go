package model

import "time"

// RiskProfile is the fixed category that parameterizes an excavator's compliance
// and damage distributions. It never changes after creation.
type RiskProfile string

const (
	RiskHigh      RiskProfile = "high_risk"
	RiskExcellent RiskProfile = "excellent"
	RiskAverage   RiskProfile = "average"
)

// RiskProfiles lists every profile in display order.
var RiskProfiles = []RiskProfile{RiskHigh, RiskExcellent, RiskAverage}

// DamageTrend compares the last six months of damages to the six before them.
type DamageTrend string

const (
	TrendIncreasing DamageTrend = "increasing"
	TrendDecreasing DamageTrend = "decreasing"
	TrendStable     DamageTrend = "stable"
)

// Excavator is a contractor company that files locate requests.
type Excavator struct {
	ID                string            `json:"id" yaml:"id"`
	CompanyName       string            `json:"company_name" yaml:"company_name"`
	ContactName       string            `json:"contact_name" yaml:"contact_name"`
	Phone             string            `json:"phone" yaml:"phone"`
	Email             string            `json:"email" yaml:"email"`
	Address           string            `json:"address" yaml:"address"`
	City              string            `json:"city" yaml:"city"`
	State             string            `json:"state" yaml:"state"`
	Zip               string            `json:"zip" yaml:"zip"`
	YearsInBusiness   int               `json:"years_in_business" yaml:"years_in_business"`
	ComplianceMetrics ComplianceMetrics `json:"compliance_metrics" yaml:"compliance_metrics"`
	DamageHistory     DamageHistory     `json:"damage_history" yaml:"damage_history"`
	EquipmentProfile  EquipmentProfile  `json:"equipment_profile" yaml:"equipment_profile"`
	Certifications    []string          `json:"certifications" yaml:"certifications"`
	InsuranceStatus   string            `json:"insurance_status" yaml:"insurance_status"`
	RiskProfile       RiskProfile       `json:"risk_profile" yaml:"risk_profile"`
	CreatedAt         time.Time         `json:"created_at" yaml:"created_at"`
}

// ComplianceMetrics summarizes how well an excavator follows one-call rules.
type ComplianceMetrics struct {
	ComplianceScore     int     `json:"compliance_score" yaml:"compliance_score"`
	OneCallTicketsFiled int     `json:"one_call_tickets_filed" yaml:"one_call_tickets_filed"`
	LateTickets         int     `json:"late_tickets" yaml:"late_tickets"`
	NoShowRate          float64 `json:"no_show_rate" yaml:"no_show_rate"`
	PreMarkRate         float64 `json:"pre_mark_rate" yaml:"pre_mark_rate"`
}

// DamageHistory holds cumulative damage counts. Each horizon includes the shorter ones,
// so Damages6Mo <= Damages12Mo <= Damages24Mo <= DamagesAllTime.
type DamageHistory struct {
	Damages6Mo        int            `json:"damages_6mo" yaml:"damages_6mo"`
	Damages12Mo       int            `json:"damages_12mo" yaml:"damages_12mo"`
	Damages24Mo       int            `json:"damages_24mo" yaml:"damages_24mo"`
	DamagesAllTime    int            `json:"damages_all_time" yaml:"damages_all_time"`
	ByUtilityType     map[string]int `json:"by_utility_type" yaml:"by_utility_type"`
	BySeverity        SeverityTally  `json:"by_severity" yaml:"by_severity"`
	AtFaultRate       float64        `json:"at_fault_rate" yaml:"at_fault_rate"`
	DamageTrend       DamageTrend    `json:"damage_trend" yaml:"damage_trend"`
	LastDamageDaysAgo *int           `json:"last_damage_days_ago" yaml:"last_damage_days_ago"`
}

// UtilityTotal sums the by-utility breakdown.
func (h DamageHistory) UtilityTotal() int {
	var n int
	for _, v := range h.ByUtilityType {
		n += v
	}
	return n
}

// SeverityTally counts damages per severity.
type SeverityTally struct {
	Minor    int `json:"minor" yaml:"minor"`
	Major    int `json:"major" yaml:"major"`
	Critical int `json:"critical" yaml:"critical"`
}

// EquipmentProfile describes how an excavator digs.
type EquipmentProfile struct {
	PrimaryEquipment     []string `json:"primary_equipment" yaml:"primary_equipment"`
	UsesVacuumExcavation bool     `json:"uses_vacuum_excavation" yaml:"uses_vacuum_excavation"`
	UsesHydroExcavation  bool     `json:"uses_hydro_excavation" yaml:"uses_hydro_excavation"`
	ExcavationMethod     string   `json:"excavation_method" yaml:"excavation_method"`
}
