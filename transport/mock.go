package transport

import (
	"sync"
)

// Call records a single command delivered to the mock sink.
type Call struct {
	Op   string
	Addr uint16

	Intensity  float64
	Kelvin     int
	Hue        float64
	Saturation float64
	Sleep      bool

	Engine string
	Params Params
	FX     HardwareEffect
}

// Mock is an in-memory Sink for tests and demos. Readiness is fully under
// the caller's control: lights start ready unless marked otherwise, and
// SetReady fires any pending OnReady registrations.
type Mock struct {
	mu       sync.Mutex
	calls    []Call
	notReady map[uint16]bool
	waiters  map[uint16][]*mockWaiter
	connects []uint16
}

type mockWaiter struct {
	fn       func()
	canceled bool
}

// NewMock creates a mock sink with every address ready.
func NewMock() *Mock {
	return &Mock{
		notReady: make(map[uint16]bool),
		waiters:  make(map[uint16][]*mockWaiter),
	}
}

func (m *Mock) record(c Call) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

// Calls returns a copy of every recorded command in delivery order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns the recorded commands addressed to one light.
func (m *Mock) CallsFor(addr uint16) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Addr == addr {
			out = append(out, c)
		}
	}
	return out
}

// Ops returns just the op names of every recorded command.
func (m *Mock) Ops() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Op
	}
	return out
}

// Reset discards all recorded calls and connect requests.
func (m *Mock) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.connects = nil
	m.mu.Unlock()
}

// Connects returns the connect requests issued so far.
func (m *Mock) Connects() []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint16, len(m.connects))
	copy(out, m.connects)
	return out
}

// SetReady flips the readiness of a light. Transitioning to ready fires any
// pending OnReady registrations synchronously.
func (m *Mock) SetReady(addr uint16, ready bool) {
	m.mu.Lock()
	var fire []*mockWaiter
	if ready {
		delete(m.notReady, addr)
		fire = m.waiters[addr]
		delete(m.waiters, addr)
	} else {
		m.notReady[addr] = true
	}
	m.mu.Unlock()

	for _, w := range fire {
		if !w.canceled {
			w.fn()
		}
	}
}

func (m *Mock) SetCCT(addr uint16, intensity float64, kelvin int, sleep bool) error {
	m.record(Call{Op: "setCCT", Addr: addr, Intensity: intensity, Kelvin: kelvin, Sleep: sleep})
	return nil
}

func (m *Mock) SetHSI(addr uint16, intensity, hue, saturation float64, kelvin int, sleep bool) error {
	m.record(Call{Op: "setHSI", Addr: addr, Intensity: intensity, Hue: hue, Saturation: saturation, Kelvin: kelvin, Sleep: sleep})
	return nil
}

func (m *Mock) SetSleep(addr uint16, on bool) error {
	m.record(Call{Op: "setSleep", Addr: addr, Sleep: on})
	return nil
}

func (m *Mock) SetHardwareEffect(addr uint16, fx HardwareEffect) error {
	m.record(Call{Op: "setHardwareEffect", Addr: addr, FX: fx})
	return nil
}

func (m *Mock) StartSoftwareEffect(addr uint16, engine string, params Params) error {
	m.record(Call{Op: "startSoftwareEffect", Addr: addr, Engine: engine, Params: params})
	return nil
}

func (m *Mock) UpdateEffect(addr uint16, params Params) error {
	m.record(Call{Op: "updateEffect", Addr: addr, Params: params})
	return nil
}

func (m *Mock) StopEffect(addr uint16) error {
	m.record(Call{Op: "stopEffect", Addr: addr})
	return nil
}

func (m *Mock) StopAll() error {
	m.record(Call{Op: "stopAll"})
	return nil
}

func (m *Mock) IsReady(addr uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.notReady[addr]
}

func (m *Mock) Connect(addr uint16) {
	m.mu.Lock()
	m.connects = append(m.connects, addr)
	m.mu.Unlock()
}

func (m *Mock) OnReady(addr uint16, fn func()) func() {
	m.mu.Lock()
	if !m.notReady[addr] {
		m.mu.Unlock()
		fn()
		return func() {}
	}
	w := &mockWaiter{fn: fn}
	m.waiters[addr] = append(m.waiters[addr], w)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		w.canceled = true
		m.mu.Unlock()
	}
}

var _ Sink = (*Mock)(nil)
