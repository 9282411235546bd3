package enums

// SideType records whether a board builds one or both sides.
type SideType string

const (
	SideSingle SideType = "Single"
	SideDouble SideType = "Double"
)
