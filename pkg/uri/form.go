package uri

// Form is the set of representations an address part can be rendered in.
type Form uint8

const (
	// FormLong renders with human readable names
	FormLong Form = 1 << iota
	// FormShort renders with numeric ids and network addresses
	FormShort

	// FormResolved carries both long and short data
	FormResolved = FormLong | FormShort
)

// Has reports whether f includes every form in other.
func (f Form) Has(other Form) bool {
	return other != 0 && f&other == other
}

// String returns a readable name for the form set.
func (f Form) String() string {
	switch f {
	case 0:
		return "none"
	case FormLong:
		return "long"
	case FormShort:
		return "short"
	case FormResolved:
		return "resolved"
	default:
		return "invalid"
	}
}
