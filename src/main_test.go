package main

import (
	"testing"
	"time"

	"github.com/Manwithacape/Game-Of-Life/src/universe"
)

func TestCliOptionsApply(t *testing.T) {
	o := universe.DefaultUniverseOptions
	o.Width = 30 //from the options file
	cliOptions{height: 12, interval: 20 * time.Millisecond, workers: 3}.apply(&o)

	if o.Width != 30 {
		t.Errorf("unset flag overrode the width: %d", o.Width)
	}
	if o.Height != 12 || o.Interval != 20*time.Millisecond || o.Workers != 3 {
		t.Errorf("flags not applied: %+v", o)
	}
	if o.MaxSteps != universe.DefMaxSteps || o.MaxSkippedTicks != universe.DefMaxSkippedTicks {
		t.Errorf("defaults changed: %+v", o)
	}
}

func TestEngines(t *testing.T) {
	o := universe.DefaultUniverseOptions
	for name, newUniverse := range engines {
		u, err := newUniverse(&o, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if engine := u.Options().Advanced["engine"]; engine != name {
			t.Errorf("engine %q reports itself as %v", name, engine)
		}
		u.Close()
	}
}
