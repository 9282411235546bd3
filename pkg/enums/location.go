package enums

// Location is the shop-floor stage a work order currently sits in. Only orders
// in the SMT production stage are eligible for automatic scheduling.
type Location string

const (
	LocationSMTProduction Location = "SMT PRODUCTION"
	LocationKitShortShelf Location = "KIT SHORT SHELF"
	LocationProgramming   Location = "PROGRAMMING"
	LocationIncoming      Location = "INCOMING"
	LocationFinalAssembly Location = "FINAL ASSEMBLY"
)

// ReadyForScheduling reports whether orders at this location may be picked up
// by the assignment optimizer.
func (l Location) ReadyForScheduling() bool {
	return l == LocationSMTProduction
}
