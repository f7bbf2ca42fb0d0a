package main

import (
	"sync"

	"github.com/robmorgan/beam/effect"
	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/logger"
	"github.com/robmorgan/beam/transport"
	"github.com/sirupsen/logrus"
)

// consoleSink is the demo transport: it logs every command instead of
// talking to real hardware, and emulates software effects with an embedded
// effect engine so their periodic base-state rewrites show up in the log.
type consoleSink struct {
	mu       sync.Mutex
	notReady map[uint16]bool

	fx *effect.Engine
}

func newConsoleSink(sched engine.Scheduler) *consoleSink {
	s := &consoleSink{
		notReady: make(map[uint16]bool),
	}
	s.fx = effect.NewEngine(sched, (*rawConsoleWriter)(s))
	return s
}

// rawConsoleWriter is the effect engine's view of the sink. Same setters,
// quieter logging, so a 25Hz effect doesn't drown the command log.
type rawConsoleWriter consoleSink

func (w *rawConsoleWriter) SetCCT(addr uint16, intensity float64, kelvin int, sleep bool) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr, "intensity": intensity, "kelvin": kelvin}).
		Debug("fx cct")
	return nil
}

func (w *rawConsoleWriter) SetHSI(addr uint16, intensity, hue, saturation float64, kelvin int, sleep bool) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr, "intensity": intensity, "hue": hue, "sat": saturation}).
		Debug("fx hsi")
	return nil
}

func (s *consoleSink) SetCCT(addr uint16, intensity float64, kelvin int, sleep bool) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr, "intensity": intensity, "kelvin": kelvin, "sleep": sleep}).
		Info("set cct")
	return nil
}

func (s *consoleSink) SetHSI(addr uint16, intensity, hue, saturation float64, kelvin int, sleep bool) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr, "intensity": intensity, "hue": hue, "sat": saturation, "kelvin": kelvin}).
		Info("set hsi")
	return nil
}

func (s *consoleSink) SetSleep(addr uint16, on bool) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr, "sleep": on}).Info("set sleep")
	return nil
}

func (s *consoleSink) SetHardwareEffect(addr uint16, fx transport.HardwareEffect) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr, "effect": fx.Effect, "freq": fx.Frequency}).
		Info("set hardware effect")
	return nil
}

func (s *consoleSink) StartSoftwareEffect(addr uint16, name string, params transport.Params) error {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr, "effect": name}).Info("start software effect")
	s.fx.Start(addr, name, params)
	return nil
}

func (s *consoleSink) UpdateEffect(addr uint16, params transport.Params) error {
	s.fx.Update(addr, params)
	return nil
}

func (s *consoleSink) StopEffect(addr uint16) error {
	s.fx.Stop(addr)
	return nil
}

func (s *consoleSink) StopAll() error {
	logger.GetProjectLogger().Info("stop all")
	s.fx.StopAll()
	return nil
}

func (s *consoleSink) IsReady(addr uint16) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.notReady[addr]
}

func (s *consoleSink) Connect(addr uint16) {
	logger.GetProjectLogger().WithFields(logrus.Fields{"addr": addr}).Info("connect")
	s.mu.Lock()
	delete(s.notReady, addr)
	s.mu.Unlock()
}

func (s *consoleSink) OnReady(addr uint16, fn func()) func() {
	// every address is ready in the demo
	fn()
	return func() {}
}

var _ transport.Sink = (*consoleSink)(nil)
