package config

import "github.com/robmorgan/beam/profile"

func initializeFixtureProfiles() map[string]profile.Profile {
	out := map[string]profile.Profile{
		"panel-60": {
			Name: "60W Bi-Color LED Panel",
			Capabilities: []string{
				profile.CapabilityCCT,
				profile.CapabilitySleep,
				profile.CapabilityHardwareEffects,
			},
			MinKelvin: 2700,
			MaxKelvin: 6500,
		},
		"tube-rgbw": {
			Name: "RGBW Pixel Tube",
			Capabilities: []string{
				profile.CapabilityCCT,
				profile.CapabilityHSI,
				profile.CapabilitySleep,
				profile.CapabilityHardwareEffects,
			},
			MinKelvin: 2000,
			MaxKelvin: 10000,
		},
		"pocket-rgb": {
			Name: "Pocket RGB Fill Light",
			Capabilities: []string{
				profile.CapabilityCCT,
				profile.CapabilityHSI,
			},
			MinKelvin: 2500,
			MaxKelvin: 8500,
		},
	}

	return out
}
