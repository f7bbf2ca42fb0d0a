package config

import (
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/beam/profile"
	"github.com/sirupsen/logrus"
)

// GetBeamConfig returns the current configuration
func GetBeamConfig() BeamConfig {
	val, _ := NewBeamConfig()
	return val
}

// BeamConfig represents options that configure the global behavior of the program
type BeamConfig struct {
	// Project logger
	Logger *logrus.Logger

	// The fixture profiles
	FixtureProfiles map[string]profile.Profile

	// PatchedFixtures stores all of the patched fixtures in a custom struct
	PatchedFixtures []PatchedFixture
}

// Create a new BeamConfig object with reasonable defaults for real usage
func NewBeamConfig() (BeamConfig, error) {
	// TODO - support passing in a config file one day

	cfg := BeamConfig{
		FixtureProfiles: initializeFixtureProfiles(),
		PatchedFixtures: PatchFixtures(),
	}
	if err := cfg.validate(); err != nil {
		return BeamConfig{}, err
	}
	return cfg, nil
}

func (c BeamConfig) validate() error {
	seen := make(map[string]bool)
	for _, f := range c.PatchedFixtures {
		if f.ID == "" {
			return errors.WithStackTrace(ErrUnnamedFixture)
		}
		if seen[f.ID] {
			return errors.WithStackTrace(DuplicateFixtureError{ID: f.ID})
		}
		seen[f.ID] = true
		if _, ok := c.FixtureProfiles[f.Profile]; !ok {
			return errors.WithStackTrace(UnknownProfileError{ID: f.ID, Profile: f.Profile})
		}
	}
	return nil
}
