package model

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aegis-locate/aegis-seed/internal/geo"
)

// TicketType classifies a locate request and fixes its priority and due window.
type TicketType string

const (
	TicketRoutine      TicketType = "routine"
	TicketNonCompliant TicketType = "non_compliant"
	TicketEmergency    TicketType = "emergency"
)

// Priority returns 100 for emergency, 50 for non-compliant and 0 otherwise.
func (t TicketType) Priority() int {
	switch t {
	case TicketEmergency:
		return 100
	case TicketNonCompliant:
		return 50
	default:
		return 0
	}
}

// DueWindow is the time between request and due date.
func (t TicketType) DueWindow() time.Duration {
	switch t {
	case TicketEmergency:
		return 2 * time.Hour
	case TicketNonCompliant:
		return 24 * time.Hour
	default:
		return 48 * time.Hour
	}
}

// Utility is a kind of buried facility.
type Utility string

const (
	UtilityGas      Utility = "gas"
	UtilityElectric Utility = "electric"
	UtilityWater    Utility = "water"
	UtilitySewer    Utility = "sewer"
	UtilityTelecom  Utility = "telecom"
	UtilityFiber    Utility = "fiber"
	UtilityCable    Utility = "cable"
)

// TicketUtilities is every utility a locate request can name.
var TicketUtilities = []Utility{
	UtilityGas, UtilityElectric, UtilityWater, UtilitySewer, UtilityTelecom, UtilityFiber, UtilityCable,
}

// TicketStatusPending is the only status the generator emits.
const TicketStatusPending = "pending"

// Ticket is a locate request filed by an excavator.
type Ticket struct {
	ID                     string      `json:"id" yaml:"id"`
	TicketNumber           string      `json:"ticket_number" yaml:"ticket_number"`
	Type                   TicketType  `json:"type" yaml:"type"`
	Status                 string      `json:"status" yaml:"status"`
	Priority               int         `json:"priority" yaml:"priority"`
	Address                string      `json:"address" yaml:"address"`
	NearestIntersection    string      `json:"nearest_intersection" yaml:"nearest_intersection"`
	Location               geo.Point   `json:"location" yaml:"location"`
	BoundaryBox            geo.Polygon `json:"boundary_box" yaml:"boundary_box"`
	County                 string      `json:"county" yaml:"county"`
	LocationType           string      `json:"location_type" yaml:"location_type"`
	WorkType               string      `json:"work_type" yaml:"work_type"`
	WorkToBegin            string      `json:"work_to_begin" yaml:"work_to_begin"`
	WorkDurationDays       int         `json:"work_duration_days" yaml:"work_duration_days"`
	WorkDescription        string      `json:"work_description" yaml:"work_description"`
	DistanceMiles          float64     `json:"distance_miles" yaml:"distance_miles"`
	ExcavationExtentFeet   int         `json:"excavation_extent_feet" yaml:"excavation_extent_feet"`
	ExcavationDepthFeet    Depth       `json:"excavation_depth_feet" yaml:"excavation_depth_feet"`
	ExcavationMethod       string      `json:"excavation_method" yaml:"excavation_method"`
	UtilityTypes           []Utility   `json:"utility_types" yaml:"utility_types"`
	FacilityOwnersNotified []string    `json:"facility_owners_notified" yaml:"facility_owners_notified"`
	ExcavatorID            string      `json:"excavator_id" yaml:"excavator_id"`
	ExcavatorCompany       string      `json:"excavator_company" yaml:"excavator_company"`
	CallerName             string      `json:"caller_name" yaml:"caller_name"`
	CallerPhone            string      `json:"caller_phone" yaml:"caller_phone"`
	WhiteLined             bool        `json:"white_lined" yaml:"white_lined"`
	MarkingInstructions    string      `json:"marking_instructions" yaml:"marking_instructions"`
	Remarks                string      `json:"remarks" yaml:"remarks"`

	Assessment `yaml:",inline"`

	RequestedDate time.Time `json:"requested_date" yaml:"requested_date"`
	DueDate       time.Time `json:"due_date" yaml:"due_date"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// HasUtility reports whether u is among the ticket's utility types.
func (t Ticket) HasUtility(u Utility) bool {
	for _, v := range t.UtilityTypes {
		if v == u {
			return true
		}
	}
	return false
}

// AssessmentStatus tags whether the downstream risk system has processed a ticket.
type AssessmentStatus string

const (
	AssessmentUnassessed AssessmentStatus = "unassessed"
	AssessmentAssessed   AssessmentStatus = "assessed"
)

// Assessment is downstream dispatch and risk state. The generator only ever emits the
// Unassessed variant, whose fields serialize as null; an external system fills them in.
type Assessment struct {
	AssessmentStatus AssessmentStatus `json:"assessment_status" yaml:"assessment_status"`
	AssignedTo       *string          `json:"assigned_to" yaml:"assigned_to"`
	AssignedAt       *time.Time       `json:"assigned_at" yaml:"assigned_at"`
	RiskAssessment   map[string]any   `json:"risk_assessment" yaml:"risk_assessment"`
	RiskScore        *int             `json:"risk_score" yaml:"risk_score"`
	RiskLevel        *string          `json:"risk_level" yaml:"risk_level"`
	CompletedDate    *time.Time       `json:"completed_date" yaml:"completed_date"`
}

// Unassessed returns the not-yet-processed variant.
func Unassessed() Assessment {
	return Assessment{AssessmentStatus: AssessmentUnassessed}
}

// IsAssessed reports whether the ticket carries downstream risk state.
func (a Assessment) IsAssessed() bool {
	return a.AssessmentStatus == AssessmentAssessed
}

// Depth is an excavation depth in feet, or unknown.
type Depth struct {
	Feet  int
	Known bool
}

// DepthFeet returns a known depth.
func DepthFeet(ft int) Depth {
	return Depth{Feet: ft, Known: true}
}

// DepthUnknown is the caller-did-not-say depth.
var DepthUnknown = Depth{}

const depthUnknownText = "unknown"

func (d Depth) String() string {
	if !d.Known {
		return depthUnknownText
	}
	return strconv.Itoa(d.Feet)
}

// MarshalJSON writes a number, or the string "unknown".
func (d Depth) MarshalJSON() ([]byte, error) {
	if !d.Known {
		return json.Marshal(depthUnknownText)
	}
	return json.Marshal(d.Feet)
}

// UnmarshalJSON accepts a number or the string "unknown".
func (d *Depth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != depthUnknownText {
			return eris.Errorf("model: invalid excavation depth %q", s)
		}
		*d = DepthUnknown
		return nil
	}
	var ft int
	if err := json.Unmarshal(data, &ft); err != nil {
		return eris.Wrap(err, "model: decode excavation depth")
	}
	*d = DepthFeet(ft)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (d Depth) MarshalYAML() (any, error) {
	if !d.Known {
		return depthUnknownText, nil
	}
	return d.Feet, nil
}
