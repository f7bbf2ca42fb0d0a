package config

// PatchedFixture stores config info for a provisioned light
type PatchedFixture struct {
	ID      string
	Name    string
	Address uint16
	Profile string
}

// PatchFixtures returns the default light patch
func PatchFixtures() []PatchedFixture {
	s := make([]PatchedFixture, 0)

	s = append(s, patchKeyLights()...)
	s = append(s, patchTubes()...)

	return s
}

func patchKeyLights() []PatchedFixture {
	return []PatchedFixture{
		// left key light
		{
			ID:      "key_left",
			Name:    "Key Left",
			Address: 0x0004,
			Profile: "panel-60",
		},
		// right key light
		{
			ID:      "key_right",
			Name:    "Key Right",
			Address: 0x0006,
			Profile: "panel-60",
		},
	}
}

func patchTubes() []PatchedFixture {
	return []PatchedFixture{
		{
			ID:      "tube_1",
			Name:    "Tube 1",
			Address: 0x0008,
			Profile: "tube-rgbw",
		},
		{
			ID:      "tube_2",
			Name:    "Tube 2",
			Address: 0x000a,
			Profile: "tube-rgbw",
		},
		{
			ID:      "tube_3",
			Name:    "Tube 3",
			Address: 0x000c,
			Profile: "tube-rgbw",
		},
	}
}
