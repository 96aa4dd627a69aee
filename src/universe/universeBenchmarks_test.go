package universe

import (
	"sort"
	"testing"
)

var (
	testTemplate = Template{"ts1", "", [][]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}}}

	engines = map[string]func(o *Options, stateCh chan Status) (Universe, error){
		"base": func(o *Options, stateCh chan Status) (Universe, error) {
			return NewBaseUniverse(o, stateCh)
		},
		"multithreaded": NewMultithreadedUniverse,
	}
)

const (
	width  = 200
	height = 200
)

func universeStep(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		waitMode(stateCh, RunningStateManual)
		_ = u.SettleTemplate("ts1")
		b.StartTimer()
		u.Step()
		waitMode(stateCh, RunningStateManual)
	}
	u.Close()
}

func universeRun(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		waitMode(stateCh, RunningStateManual)
		_ = u.SettleTemplate("ts1")
		b.StartTimer()
		u.Run()
		waitMode(stateCh, RunningStateFinished)
	}
	u.Close()
}

func waitMode(stateCh chan Status, mode RunningState) {
	for {
		st := <-stateCh
		if st.RunningMode == mode {
			return
		}
	}
}

func newStateCh() chan Status {
	return make(chan Status, 10)
}

func newUniverseOptions() *Options {
	o := DefaultUniverseOptions
	o.Interval = 0
	o.Width = width
	o.Height = height
	return &o
}

func engineNames() (engineNames []string) {
	engineNames = make([]string, 0, len(engines))
	for k := range engines {
		engineNames = append(engineNames, k)
	}
	sort.Strings(engineNames)
	return
}

func Benchmark_Step(b *testing.B) {
	for _, e := range engineNames() {
		b.Run(e, func(b *testing.B) {
			u, err := engines[e](newUniverseOptions(), newStateCh())
			if err != nil {
				b.Fatal(err)
			}
			universeStep(u, b)
		})
	}
}

func Benchmark_Universe(b *testing.B) {
	for _, e := range engineNames() {
		b.Run(e, func(b *testing.B) {
			u, err := engines[e](newUniverseOptions(), newStateCh())
			if err != nil {
				b.Fatal(err)
			}
			universeRun(u, b)
		})
	}
}

func BenchmarkGrid_Advance(b *testing.B) {
	for _, workers := range []int{1, 4, 8} {
		b.Run(map[int]string{1: "sequential", 4: "4 workers", 8: "8 workers"}[workers], func(b *testing.B) {
			g, _ := NewGrid(width, height)
			_ = g.Settle(testTemplate.Coordinates)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g.AdvanceParallel(workers)
			}
		})
	}
}
