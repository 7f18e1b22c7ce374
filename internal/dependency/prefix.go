package dependency

type Prefix int

const (
	Required Prefix = iota
	Incompatible
	Optional
	HiddenOptional
	NonChanging
)

var markers = map[Prefix]string{
	Required:       "",
	Incompatible:   "!",
	Optional:       "?",
	HiddenOptional: "(?)",
	NonChanging:    "~",
}

func ParsePrefix(marker string) (Prefix, error) {
	for prefix, known := range markers {
		if known == marker {
			return prefix, nil
		}
	}
	return Required, &InvalidPrefixError{Marker: marker}
}

// Marker is the textual form of the prefix; Required has none.
func (p Prefix) Marker() string {
	return markers[p]
}

func (p Prefix) String() string {
	switch p {
	case Required:
		return "required"
	case Incompatible:
		return "incompatible"
	case Optional:
		return "optional"
	case HiddenOptional:
		return "hidden-optional"
	case NonChanging:
		return "non-changing"
	default:
		return "unknown"
	}
}
