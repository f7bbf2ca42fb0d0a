package config

import (
	"errors"
	"fmt"
)

// ErrUnnamedFixture is returned when a patched fixture has no id.
var ErrUnnamedFixture = errors.New("patched fixture has no id")

// DuplicateFixtureError is returned when two patched fixtures share an id.
type DuplicateFixtureError struct {
	ID string
}

func (e DuplicateFixtureError) Error() string {
	return fmt.Sprintf("duplicate fixtures found! id=%s", e.ID)
}

// UnknownProfileError is returned when a patched fixture references a
// profile that does not exist.
type UnknownProfileError struct {
	ID      string
	Profile string
}

func (e UnknownProfileError) Error() string {
	return fmt.Sprintf("fixture %s references unknown profile %s", e.ID, e.Profile)
}
