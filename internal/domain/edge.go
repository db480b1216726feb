package domain

// Edge identifies one side of a Bound.
type Edge int

const (
	EdgeLower Edge = iota + 1
	EdgeUpper
	EdgeBoth
)

// String returns the configuration suffix of the edge ("lower", "upper").
func (e Edge) String() string {
	switch e {
	case EdgeLower:
		return "lower"
	case EdgeUpper:
		return "upper"
	case EdgeBoth:
		return "both"
	default:
		return "unknown"
	}
}
