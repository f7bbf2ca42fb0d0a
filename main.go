package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/robmorgan/beam/audio"
	"github.com/robmorgan/beam/config"
	"github.com/robmorgan/beam/cuelist"
	"github.com/robmorgan/beam/engine"
	"github.com/robmorgan/beam/fixture"
	"github.com/robmorgan/beam/logger"
	"github.com/robmorgan/beam/timeline"
	"k8s.io/utils/clock"
)

const oscListenAddr = "127.0.0.1:8765"

func main() {
	// We don't process any CLI flags or config for now, so just run the app with a context.
	// TODO - add config to the context
	ctx := context.Background()
	Run(ctx)
}

// Run starts the show runner.
func Run(ctx context.Context) {
	_, cancel := context.WithCancel(ctx)
	defer cancel()

	// initialize the logger
	logger := logger.GetProjectLogger()

	// initiailze the global config
	logger.Info("Initializing config...")
	config, err := config.NewBeamConfig()
	if err != nil {
		logger.Fatalf("error creating config. err='%v'", err)
	}

	// initialize the fixtures
	logger.Info("Initializing fixture manager...")
	fm, err := fixture.NewManager(config)
	if err != nil {
		logger.Fatalf("error initializing fixture manager. err='%v'", err)
	}

	// the scheduler loop is the single timeline every sequencer runs on
	logger.Info("Starting scheduler loop...")
	loop := engine.NewLoop(clock.RealClock{})
	loop.Start()
	defer loop.Stop()

	sink := newConsoleSink(loop)

	// init sequencers
	logger.Info("Initializing sequencers...")
	cueSeq := cuelist.NewSequencer(loop, fm, sink, cuelist.FireFade)
	tlSeq := timeline.NewSequencer(loop, fm, sink, timeline.FireDirect, audio.NewPlayer())

	cueSeq.OnChange(func(st cuelist.Status) {
		logger.Infof("cue list: cue=%d running=%v", st.CurrentCue, st.Running)
	})
	tlSeq.OnChange(func(st timeline.Status) {
		logger.Infof("timeline: playing=%v t=%.2fs", st.Playing, st.Time)
	})

	// build show
	list := buildShowCues()
	show := buildShowTimeline()

	// fire the opening cue
	loop.Submit(func() {
		cueSeq.FireCue(list.Cues[0], list)
	})

	// external triggers arrive over OSC
	logger.Infof("Listening for OSC triggers on %s...", oscListenAddr)
	trigger := newOSCTrigger(loop, cueSeq, list, tlSeq, show)
	go func() {
		if err := trigger.ListenAndServe(oscListenAddr); err != nil {
			logger.Errorf("osc server stopped: %v", err)
		}
	}()

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	<-quit
	logger.Println("shutting down beam")
	loop.Submit(func() {
		cueSeq.Stop()
		tlSeq.Stop()
	})
	cancel()
}
