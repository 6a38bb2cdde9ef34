package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aegis-locate/aegis-seed/internal/geo"
)

func TestTicketTypeRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ      TicketType
		priority int
		window   time.Duration
	}{
		{TicketEmergency, 100, 2 * time.Hour},
		{TicketNonCompliant, 50, 24 * time.Hour},
		{TicketRoutine, 0, 48 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.priority, tt.typ.Priority())
			assert.Equal(t, tt.window, tt.typ.DueWindow())
		})
	}
}

func TestRoleFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		years float64
		want  Role
	}{
		{0, RoleTrainee},
		{1.9, RoleTrainee},
		{2, RoleLocator},
		{4.9, RoleLocator},
		{5, RoleSeniorLocator},
		{15, RoleSeniorLocator},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleFor(tt.years), "years=%v", tt.years)
	}
}

func TestDepthJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(DepthFeet(6))
	require.NoError(t, err)
	assert.Equal(t, "6", string(b))

	b, err = json.Marshal(DepthUnknown)
	require.NoError(t, err)
	assert.Equal(t, `"unknown"`, string(b))

	var d Depth
	require.NoError(t, json.Unmarshal([]byte(`4`), &d))
	assert.Equal(t, DepthFeet(4), d)

	require.NoError(t, json.Unmarshal([]byte(`"unknown"`), &d))
	assert.False(t, d.Known)

	assert.Error(t, json.Unmarshal([]byte(`"deep"`), &d))
}

func TestDepthYAML(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(map[string]Depth{"a": DepthFeet(3), "b": DepthUnknown})
	require.NoError(t, err)
	assert.Contains(t, string(out), "a: 3")
	assert.Contains(t, string(out), "b: unknown")
}

func TestUnassessedTicketSerializesNulls(t *testing.T) {
	t.Parallel()

	ticket := Ticket{
		ID:         "t-1",
		Type:       TicketRoutine,
		Location:   geo.NewPoint(-98.5, 29.4),
		Assessment: Unassessed(),
	}
	assert.False(t, ticket.IsAssessed())

	b, err := json.Marshal(ticket)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	for _, k := range []string{"assigned_to", "assigned_at", "risk_assessment", "risk_score", "risk_level", "completed_date"} {
		v, ok := raw[k]
		assert.True(t, ok, "missing %s", k)
		assert.Nil(t, v, "%s should be null", k)
	}
	assert.Equal(t, "unassessed", raw["assessment_status"])
}

func TestTicketHasUtility(t *testing.T) {
	t.Parallel()

	ticket := Ticket{UtilityTypes: []Utility{UtilityGas, UtilityWater}}
	assert.True(t, ticket.HasUtility(UtilityGas))
	assert.False(t, ticket.HasUtility(UtilityElectric))
}

func TestCostsSum(t *testing.T) {
	t.Parallel()

	c := Costs{Repair: 1000, RegulatoryFines: 500, ServiceCredits: 25, IndirectCosts: 200}
	assert.Equal(t, 1725, c.Sum())
}

func TestRequiresRegulatoryNotification(t *testing.T) {
	t.Parallel()

	assert.True(t, RequiresRegulatoryNotification(SeverityCritical, UtilityWater))
	assert.True(t, RequiresRegulatoryNotification(SeverityMinor, UtilityGas))
	assert.False(t, RequiresRegulatoryNotification(SeverityMajor, UtilityElectric))
}

func TestDamageHistoryUtilityTotal(t *testing.T) {
	t.Parallel()

	h := DamageHistory{ByUtilityType: map[string]int{"gas": 2, "electric": 1, "telecom": 4}}
	assert.Equal(t, 7, h.UtilityTotal())
	assert.Equal(t, 0, DamageHistory{}.UtilityTotal())
}
