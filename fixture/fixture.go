package fixture

// Fixture is a single addressable light.
type Fixture struct {
	// Stable id used by cues and timeline tracks
	ID string

	// Human readable name
	Name string

	// The unicast address of the light on the wireless mesh. Zero means
	// the light has never been provisioned and cannot be reached.
	Address uint16

	// The fixture profile name
	Profile string
}

// Reachable reports whether the fixture has a resolvable transport address.
func (f *Fixture) Reachable() bool {
	return f.Address != 0
}
