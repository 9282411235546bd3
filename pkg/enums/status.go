package enums

// Status tracks the hands-on state of a work order on the floor.
type Status string

const (
	StatusClearToBuild      Status = "Clear to Build"
	StatusClearToBuildNew   Status = "Clear to Build *"
	StatusRunning           Status = "Running"
	StatusSecondSideRunning Status = "2nd Side Running"
	StatusOnHold            Status = "On Hold"
	StatusProgramStencil    Status = "Program/Stencil"
)

// ConsumesTrolleys reports whether a work order in this status holds physical
// trolleys on the floor and therefore counts against the shared limit.
func (s Status) ConsumesTrolleys() bool {
	switch s {
	case StatusRunning, StatusSecondSideRunning, StatusClearToBuild, StatusClearToBuildNew:
		return true
	}
	return false
}
