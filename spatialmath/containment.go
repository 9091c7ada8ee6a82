package spatialmath

// ContainmentType describes how one volume relates to another.
type ContainmentType uint8

// The three possible containment results. Disjoint volumes share no space, Intersects means they
// partially overlap and Contains means the queried volume lies entirely inside the other.
const (
	Disjoint = ContainmentType(iota)
	Intersects
	Contains
)

func (c ContainmentType) String() string {
	switch c {
	case Disjoint:
		return "disjoint"
	case Intersects:
		return "intersects"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}
