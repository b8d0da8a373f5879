package imaging

// Policy is one named quality tier: the longest allowed output dimension in
// pixels and the JPEG quality on the encoder's 1-100 scale.
type Policy struct {
	Name         string
	MaxDimension int
	Quality      int
}

var (
	PolicyHigh   = Policy{Name: "high", MaxDimension: 1600, Quality: 80}
	PolicyMedium = Policy{Name: "medium", MaxDimension: 1024, Quality: 70}
	PolicyLow    = Policy{Name: "low", MaxDimension: 800, Quality: 60}
)

// PolicyFor maps a persisted setting value to its tier. Unset or
// unrecognized names fall back to medium.
func PolicyFor(name string) Policy {
	switch name {
	case "high":
		return PolicyHigh
	case "low":
		return PolicyLow
	default:
		return PolicyMedium
	}
}
