package fixture

import (
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/beam/config"
)

// Manager is the fixture manager interface
type Manager interface {
	SetState(id string, new State)
	GetState(id string) *State
	GetFixtureIDs() []string
	GetAllStates() StateMap
	GetByID(id string) *Fixture
	GetFixturesByID() IDMap
}

// IDMap holds string-keyed fixtures
type IDMap map[string]*Fixture

// StateMap holds the last state sent to each light
type StateMap map[string]State

// StateManager holds the patched fixtures and the last state the sequencer
// sent to each of them. Sequencers read the recorded state as the starting
// point of a fade.
type StateManager struct {
	states    StateMap
	items     IDMap
	stateLock sync.RWMutex
}

// SetState records the state most recently sent to a light
func (m *StateManager) SetState(id string, new State) {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()
	m.states[id] = new
}

// GetState returns a copy of the last state sent to a light, or nil if
// nothing has been sent yet
func (m *StateManager) GetState(id string) *State {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	state, ok := m.states[id]
	if ok {
		return &state
	}
	return nil
}

// GetFixtureIDs returns all the light ids
func (m *StateManager) GetFixtureIDs() []string {
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

// GetAllStates returns a copy of the recorded state for all lights
func (m *StateManager) GetAllStates() StateMap {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	out := make(StateMap, len(m.states))
	for k, v := range m.states {
		out[k] = v
	}
	return out
}

// GetFixturesByID returns lights keyed by id
func (m *StateManager) GetFixturesByID() IDMap {
	return m.items
}

// GetByID looks up a fixture by id. Returns nil when the id is unknown; a
// cue entry referencing an unknown light is skipped, never fatal.
func (m *StateManager) GetByID(id string) *Fixture {
	fixture, ok := m.items[id]
	if ok {
		return fixture
	}
	return nil
}

// NewManager parses fixture config
func NewManager(cfg config.BeamConfig) (Manager, error) {
	m := StateManager{
		states: make(StateMap),
		items:  make(IDMap),
	}

	// get all the available fixtures
	for i := range cfg.PatchedFixtures {
		x := &cfg.PatchedFixtures[i]

		if _, ok := m.items[x.ID]; ok {
			return nil, errors.WithStackTrace(config.DuplicateFixtureError{ID: x.ID})
		}
		m.items[x.ID] = &Fixture{
			ID:      x.ID,
			Name:    x.Name,
			Address: x.Address,
			Profile: x.Profile,
		}
	}

	return &m, nil
}
