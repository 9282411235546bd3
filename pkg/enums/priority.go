package enums

// Priority orders work for the assignment optimizer. Lower rank schedules first.
type Priority string

const (
	PriorityCriticalMass   Priority = "Critical Mass"
	PriorityOverclocked    Priority = "Overclocked"
	PriorityFactoryDefault Priority = "Factory Default"
	PriorityTrickleCharge  Priority = "Trickle Charge"
	PriorityPowerDown      Priority = "Power Down"
)

var priorityRanks = map[Priority]int{
	PriorityCriticalMass:   1,
	PriorityOverclocked:    2,
	PriorityFactoryDefault: 3,
	PriorityTrickleCharge:  4,
	PriorityPowerDown:      5,
}

// Rank returns the sort position for the priority. Unknown values sort after
// every known tier so a bad import row never jumps the queue.
func (p Priority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}
	return len(priorityRanks) + 1
}

// Valid reports whether the value is one of the known tiers.
func (p Priority) Valid() bool {
	_, ok := priorityRanks[p]
	return ok
}
