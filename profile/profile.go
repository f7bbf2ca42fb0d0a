package profile

const (
	CapabilityCCT             = "capability:cct"
	CapabilityHSI             = "capability:hsi"
	CapabilityHardwareEffects = "capability:effects:hardware"
	CapabilitySleep           = "capability:sleep"
)

// Profile holds info for a fixture profile including its capabilities and
// tunable white range.
type Profile struct {
	Name         string
	Capabilities []string

	// Tunable white range in kelvin
	MinKelvin int
	MaxKelvin int
}

// HasCapability reports whether the profile advertises the given capability.
func (p Profile) HasCapability(c string) bool {
	for _, cap := range p.Capabilities {
		if cap == c {
			return true
		}
	}
	return false
}
