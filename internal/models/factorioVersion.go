package models

type FactorioVersion string

const (
	Factorio013 FactorioVersion = "0.13"
	Factorio014 FactorioVersion = "0.14"
	Factorio015 FactorioVersion = "0.15"
	Factorio016 FactorioVersion = "0.16"
	Factorio017 FactorioVersion = "0.17"
	Factorio018 FactorioVersion = "0.18"
	Factorio10  FactorioVersion = "1.0"
	Factorio11  FactorioVersion = "1.1"
	Factorio20  FactorioVersion = "2.0"
)

func KnownFactorioVersions() []FactorioVersion {
	return []FactorioVersion{
		Factorio013, Factorio014, Factorio015, Factorio016, Factorio017, Factorio018,
		Factorio10, Factorio11, Factorio20,
	}
}

// IsKnown reports whether the portal publishes releases for this game version.
// Anything else is still carried through untouched.
func (v FactorioVersion) IsKnown() bool {
	for _, known := range KnownFactorioVersions() {
		if v == known {
			return true
		}
	}
	return false
}

func (v FactorioVersion) String() string {
	return string(v)
}
