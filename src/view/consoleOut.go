package view

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Manwithacape/Game-Of-Life/src/universe"
	"github.com/logrusorgru/aurora"
)

//maxPrintedWidth limits the final field printout to the fields fitting a terminal line
const maxPrintedWidth = 120

//ConsoleOut reports the simulation progress for the non-interactive mode
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	startTime time.Time
	mu        sync.Mutex
	done      chan struct{}
	doneOnce  sync.Once
}

func NewConsoleOut(w io.Writer) *ConsoleOut {
	return &ConsoleOut{w: w, done: make(chan struct{})}
}

//Done is closed when the finish of the simulation has been reported
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
		}
		_, _ = fmt.Fprintln(c.w, aurora.Red("\nFinished:"))
		c.printHashData(resultData)
		if a := c.u.Area(); a.Width <= maxPrintedWidth {
			_, _ = fmt.Fprintln(c.w, Render(a, aurora.Green("█").String(), "░"))
		}
		c.doneOnce.Do(func() { close(c.done) })
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum > 0 && st.IterationNum%10 == 0 {
			_, _ = fmt.Fprintf(c.w, "  Iterations done: %v\n", st.IterationNum)
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", aurora.Green(propName), d[propName])
	}
}
