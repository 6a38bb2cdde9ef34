package model

import (
	"time"

	"github.com/aegis-locate/aegis-seed/internal/geo"
)

// ExperienceCategory is the tier that parameterizes an employee's metrics.
type ExperienceCategory string

const (
	ExperienceNovice      ExperienceCategory = "novice"
	ExperienceExperienced ExperienceCategory = "experienced"
	ExperienceSenior      ExperienceCategory = "senior"
)

// Role is derived from computed years of experience.
type Role string

const (
	RoleSeniorLocator Role = "senior_locator"
	RoleLocator       Role = "locator"
	RoleTrainee       Role = "trainee"
)

// RoleFor maps years of experience to a role: >=5 senior, >=2 locator, else trainee.
func RoleFor(years float64) Role {
	switch {
	case years >= 5:
		return RoleSeniorLocator
	case years >= 2:
		return RoleLocator
	default:
		return RoleTrainee
	}
}

// AvailabilityStatus is a locator's current dispatch state.
type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "available"
	StatusBusy      AvailabilityStatus = "busy"
	StatusOffShift  AvailabilityStatus = "off_shift"
	StatusOnLeave   AvailabilityStatus = "on_leave"
)

// Employee is a locator who marks utilities inside an assigned territory.
type Employee struct {
	ID                 string             `json:"id" yaml:"id"`
	EmployeeNumber     string             `json:"employee_number" yaml:"employee_number"`
	FirstName          string             `json:"first_name" yaml:"first_name"`
	LastName           string             `json:"last_name" yaml:"last_name"`
	FullName           string             `json:"full_name" yaml:"full_name"`
	Email              string             `json:"email" yaml:"email"`
	Phone              string             `json:"phone" yaml:"phone"`
	Role               Role               `json:"role" yaml:"role"`
	ExperienceCategory ExperienceCategory `json:"experience_category" yaml:"experience_category"`
	Experience         Experience         `json:"experience" yaml:"experience"`
	Certifications     []Certification    `json:"certifications" yaml:"certifications"`
	Specialties        []string           `json:"specialties" yaml:"specialties"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics" yaml:"performance_metrics"`
	CurrentWorkload    Workload           `json:"current_workload" yaml:"current_workload"`
	Territory          Territory          `json:"territory" yaml:"territory"`
	Availability       Availability       `json:"availability" yaml:"availability"`
	TrainingHistory    []Training         `json:"training_history" yaml:"training_history"`
	NotableExperience  []string           `json:"notable_experience" yaml:"notable_experience"`
	Active             bool               `json:"active" yaml:"active"`
	CreatedAt          string             `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" yaml:"updated_at"`
}

// Experience records tenure. Dates are YYYY-MM-DD.
type Experience struct {
	HireDate                string  `json:"hire_date" yaml:"hire_date"`
	YearsExperience         float64 `json:"years_experience" yaml:"years_experience"`
	YearsWithCompany        float64 `json:"years_with_company" yaml:"years_with_company"`
	PriorIndustryExperience float64 `json:"prior_industry_experience" yaml:"prior_industry_experience"`
	TotalTicketsCompleted   int     `json:"total_tickets_completed" yaml:"total_tickets_completed"`
}

// Certification is a credential with its validity window.
type Certification struct {
	Type           string `json:"type" yaml:"type"`
	Level          string `json:"level" yaml:"level"`
	ObtainedDate   string `json:"obtained_date" yaml:"obtained_date"`
	ExpirationDate string `json:"expiration_date" yaml:"expiration_date"`
}

type PerformanceMetrics struct {
	AccuracyRate               float64 `json:"accuracy_rate" yaml:"accuracy_rate"`
	Damages12Mo                int     `json:"damages_12mo" yaml:"damages_12mo"`
	AtFaultDamagesEver         int     `json:"at_fault_damages_ever" yaml:"at_fault_damages_ever"`
	AverageCompletionTimeHours float64 `json:"average_completion_time_hours" yaml:"average_completion_time_hours"`
	ReworkRate                 float64 `json:"rework_rate" yaml:"rework_rate"`
	CustomerSatisfaction       float64 `json:"customer_satisfaction" yaml:"customer_satisfaction"`
	TicketsCompleted30d        int     `json:"tickets_completed_30d" yaml:"tickets_completed_30d"`
}

// Workload is today's ticket load against daily capacity.
type Workload struct {
	TicketsToday       int             `json:"tickets_today" yaml:"tickets_today"`
	TicketsThisWeek    int             `json:"tickets_this_week" yaml:"tickets_this_week"`
	MaxCapacityDaily   int             `json:"max_capacity_daily" yaml:"max_capacity_daily"`
	CurrentUtilization float64         `json:"current_utilization" yaml:"current_utilization"`
	TicketBreakdown    TicketBreakdown `json:"ticket_breakdown" yaml:"ticket_breakdown"`
	HighRiskPercentage float64         `json:"high_risk_percentage" yaml:"high_risk_percentage"`
}

type TicketBreakdown struct {
	Routine   int `json:"routine" yaml:"routine"`
	HighRisk  int `json:"high_risk" yaml:"high_risk"`
	Emergency int `json:"emergency" yaml:"emergency"`
}

// Territory is the geo-fence an employee is dispatched within.
type Territory struct {
	AssignedGeoFence geo.Polygon `json:"assigned_geo_fence" yaml:"assigned_geo_fence"`
	CenterPoint      geo.Point   `json:"center_point" yaml:"center_point"`
	Description      string      `json:"description" yaml:"description"`
	GridIndex        int         `json:"grid_index" yaml:"grid_index"`
	Row              int         `json:"row" yaml:"row"`
	Col              int         `json:"col" yaml:"col"`
}

type Availability struct {
	Status             AvailabilityStatus `json:"status" yaml:"status"`
	ShiftStart         string             `json:"shift_start" yaml:"shift_start"`
	ShiftEnd           string             `json:"shift_end" yaml:"shift_end"`
	CurrentLocation    geo.Point          `json:"current_location" yaml:"current_location"`
	LastLocationUpdate time.Time          `json:"last_location_update" yaml:"last_location_update"`
}

type Training struct {
	Course     string `json:"course" yaml:"course"`
	Date       string `json:"date" yaml:"date"`
	Instructor string `json:"instructor" yaml:"instructor"`
}
