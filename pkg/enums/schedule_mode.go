package enums

// ScheduleMode selects the optimizer's load-distribution rule.
type ScheduleMode string

const (
	// ScheduleModeBalanced spreads orders across lines by queue depth.
	ScheduleModeBalanced ScheduleMode = "balanced"
	// ScheduleModeThroughput chases the earliest projected completion.
	ScheduleModeThroughput ScheduleMode = "throughput"
)

// Valid reports whether the mode is recognized.
func (m ScheduleMode) Valid() bool {
	return m == ScheduleModeBalanced || m == ScheduleModeThroughput
}
