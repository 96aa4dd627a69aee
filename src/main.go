package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Manwithacape/Game-Of-Life/src/universe"
	"github.com/Manwithacape/Game-Of-Life/src/view"
	"github.com/integrii/flaggy"
)

var (
	engines = map[string]func(o *universe.Options, stateCh chan universe.Status) (universe.Universe, error){
		"base": func(o *universe.Options, stateCh chan universe.Status) (universe.Universe, error) {
			return universe.NewBaseUniverse(o, stateCh)
		},
		"multithreaded": universe.NewMultithreadedUniverse,
	}
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	engine      string
	template    string
	configFile  string
}

//cliOptions holds the universe options given on the command line, zero means not set
type cliOptions struct {
	width           int
	height          int
	interval        time.Duration
	maxSteps        int
	maxSkippedTicks int
	workers         int
}

func main() {
	eo, uo, err := initOptions()
	if err != nil {
		log.Fatalln(err)
	}

	var stateCh chan universe.Status

	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u, err := engines[eo.engine](uo, stateCh)
	if err != nil {
		log.Fatalln(err)
	}

	if eo.randomData {
		u.SettleWithRandomData()
	} else if err = u.SettleTemplate(eo.template); err != nil {
		log.Fatalln(err)
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
		u.Close()
		return
	}

	fmt.Printf("\"The Life\" game simulation started...\n")
	c := view.NewConsoleOut(os.Stdout)
	u.RegisterViewer(c)
	c.Start()
	u.Run()
	//the status channel is drained until the console reported the finish
	for {
		select {
		case <-stateCh:
		case <-c.Done():
			u.Close()
			return
		}
	}
}

func initOptions() (eo *EnvOptions, uo *universe.Options, err error) {

	o := universe.DefaultUniverseOptions
	uo = &o
	engineNames := make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	eo = &EnvOptions{engine: "base", template: "blinker"}
	co := cliOptions{}
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&co.width, "x", "width", "Width of a simulation field")
	flaggy.Int(&co.height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&co.interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&co.maxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Int(&co.maxSkippedTicks, "k", "maxSkippedTicks", "Finish the simulation when the step is slower than this many intervals")
	flaggy.Int(&co.workers, "w", "workers", "Workers count for the multithreaded engine")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.engine, "e", "engine", "Engine to use ["+strings.Join(engineNames, "|")+"]")
	flaggy.String(&eo.template, "t", "template", "Template to settle when not random")
	flaggy.String(&eo.configFile, "c", "config", "JSON options file, the flags override it")

	flaggy.Parse()

	if _, ok := engines[eo.engine]; !ok {
		flaggy.ShowHelpAndExit("unknown engine")
	}

	if eo.configFile != "" {
		if err = universe.LoadOptions(eo.configFile, uo); err != nil {
			return
		}
	}
	co.apply(uo)

	if !eo.interactive {
		flaggy.ShowHelp("")
	}

	return
}

//apply overrides the options set on the command line
func (co cliOptions) apply(o *universe.Options) {
	for _, f := range []struct {
		dst *int
		v   int
	}{
		{&o.Width, co.width},
		{&o.Height, co.height},
		{&o.MaxSteps, co.maxSteps},
		{&o.MaxSkippedTicks, co.maxSkippedTicks},
		{&o.Workers, co.workers},
	} {
		if f.v != 0 {
			*f.dst = f.v
		}
	}
	if co.interval != 0 {
		o.Interval = co.interval
	}
}
