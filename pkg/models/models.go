package models

// DispatchMode is one of the two independent scheduling contexts a
// technician keeps separate ranks and schedules for.
type DispatchMode string

const (
	ModeEmergency  DispatchMode = "emergency"
	ModeInspection DispatchMode = "inspection"
)

// Modes lists every dispatch mode in a stable order.
var Modes = []DispatchMode{ModeEmergency, ModeInspection}

// Valid reports whether m is a known dispatch mode.
func (m DispatchMode) Valid() bool {
	return m == ModeEmergency || m == ModeInspection
}

// Role is a technician's position on the crew. Priority ranks are dense
// within the set of technicians sharing a role (the cohort).
type Role string

const (
	RoleLead      Role = "Lead"
	RoleAssistant Role = "Assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleLead || r == RoleAssistant
}

// Override forces a technician on or off duty for a dispatch mode,
// bypassing the weekly schedule entirely. It is a single mode-level
// value, never a per-day one.
type Override string

const (
	OverrideNone    Override = "None"
	OverrideActive  Override = "ForceActive"
	OverrideOffDuty Override = "ForceOffDuty"
)

// Valid reports whether o is a known override value.
func (o Override) Valid() bool {
	return o == OverrideNone || o == OverrideActive || o == OverrideOffDuty
}

// DayNames is the fixed weekday label set, matching the day_name column
// in the persistence layer exactly.
var DayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DaySchedule is one weekday's configuration for a technician-mode pair.
// Start and End are half-hour time-slot labels ("8:00 AM"); both are
// ignored when Is24Hours is set.
type DaySchedule struct {
	Day       string `json:"day"`
	Enabled   bool   `json:"enabled"`
	Is24Hours bool   `json:"is_24_hours"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// Unranked is the sentinel priority number meaning "not ranked for this
// dispatch mode". Technicians at it are excluded from the dense 1..k
// sequence and carry the label "None".
const Unranked = 99

// ModeState holds everything a technician keeps per dispatch mode.
type ModeState struct {
	PriorityNumber int           `json:"priority_number"`
	PriorityLabel  string        `json:"priority_label"`
	Override       Override      `json:"override"`
	Days           []DaySchedule `json:"days"`
}

// Technician is a roster member.
type Technician struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`

	Modes map[DispatchMode]*ModeState `json:"modes"`
}

// Mode returns the technician's state for a dispatch mode, or a zeroed
// off-duty state when none has been stored yet.
func (t *Technician) Mode(m DispatchMode) *ModeState {
	if t.Modes != nil {
		if ms, ok := t.Modes[m]; ok && ms != nil {
			return ms
		}
	}
	return &ModeState{PriorityNumber: Unranked, PriorityLabel: "None", Override: OverrideNone}
}

// Booking is an already-scheduled event occupying a technician for one
// calendar hour. The capacity calculator subtracts bookings from the
// on-duty head count; it never reserves or commits anything itself.
type Booking struct {
	TechnicianID string       `json:"technician_id"`
	Mode         DispatchMode `json:"mode"`
	Date         string       `json:"date"` // YYYY-MM-DD
	Hour         int          `json:"hour"`
}
