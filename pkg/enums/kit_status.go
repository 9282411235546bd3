package enums

// KitStatus describes the downstream through-hole kit for a work order.
type KitStatus string

const (
	KitStatusClearToBuild KitStatus = "Clear to Build"
	KitStatusMissing      KitStatus = "Missing"
	KitStatusSMTOnly      KitStatus = "SMT ONLY"
	KitStatusNA           KitStatus = "N/A"
)

// HasDownstreamWork reports whether through-hole work follows the SMT build.
// SMT-only orders ship straight from the line, so their effective promise date
// pulls in ahead of the quoted one.
func (k KitStatus) HasDownstreamWork() bool {
	return k != KitStatusSMTOnly
}
