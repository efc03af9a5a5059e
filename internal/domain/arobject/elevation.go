package arobject

// Elevation is a coarse vertical hint for where the object sits.
type Elevation string

// Elevation hints.
const (
	Floor    Elevation = "floor"
	Eye      Elevation = "eye"
	Overhead Elevation = "overhead"
)

// IsValid reports whether e is a known hint.
func (e Elevation) IsValid() bool {
	switch e {
	case Floor, Eye, Overhead:
		return true
	}
	return false
}

// Text is the hint shown next to directional guidance. Unknown hints render empty.
func (e Elevation) Text() string {
	switch e {
	case Floor:
		return "look down (floor level)"
	case Overhead:
		return "look up (overhead)"
	case Eye:
		return "eye level"
	default:
		return ""
	}
}
