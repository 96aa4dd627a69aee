package universe

import (
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Details       map[string]interface{} //advanced details (engine specific)
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//The universe running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

//BaseUniverse is the base universe's engine
//implements Universe interface
//can be used to create different implementations by redefining nextIteration func
//
//all the commands (Run, Stop, Step, Clear...) are executed one by one by the mainLoop goroutine,
//direct cell access (Settle, InverseCell, IsAlive) is serialized with them by the grid lock
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		runID int //incremented on each run, stale run loops exit
		sync.Mutex
	}
	grid struct {
		*Grid
		sync.Mutex
	}
	views struct {
		list []Viewer
		sync.RWMutex
	}
	templates struct {
		m map[string]Template
		sync.RWMutex
	}
	stateCh       chan Status
	controlCh     chan func()
	closeCh       chan struct{}
	closeOnce     sync.Once
	nextIteration func() (hasLiveEntities bool, changed bool)
}

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop
func NewBaseUniverse(o *Options, stateCh chan Status) (*BaseUniverse, error) {
	u, err := newBaseUniverse(o, stateCh, "base")
	if err != nil {
		return nil, err
	}
	u.start()
	return u, nil
}

//newBaseUniverse creates the instance without starting the main loop,
//so the successors can redefine nextIteration first
func newBaseUniverse(o *Options, stateCh chan Status, engine string) (*BaseUniverse, error) {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	opts := *o
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	grid, err := NewGrid(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	opts.Advanced = map[string]interface{}{"engine": engine}

	u := &BaseUniverse{
		options:   opts,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		stateCh:   stateCh,
	}
	u.grid.Grid = grid
	//Details are filled before the main loop starts and only read afterwards
	u.state.Details = map[string]interface{}{"engine": engine}
	u.templates.m = make(map[string]Template, len(DefaultTemplates))
	for _, tmpl := range DefaultTemplates {
		u.templates.m[tmpl.Name] = tmpl
	}
	//nextIteration can be implemented by successor
	u.nextIteration = u.baseNextIteration
	return u, nil
}

func (u *BaseUniverse) start() {
	go u.mainLoop()
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.templates.Lock()
	u.templates.m[tmpl.Name] = tmpl
	u.templates.Unlock()
}

//Templates returns the known templates sorted by name
func (u *BaseUniverse) Templates() []Template {
	u.templates.RLock()
	defer u.templates.RUnlock()
	list := make([]Template, 0, len(u.templates.m))
	for _, tmpl := range u.templates.m {
		list = append(list, tmpl)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

//Settle settles the universe with data
//vc - array of x,y coordinates
func (u *BaseUniverse) Settle(vc [][]int) error {
	u.grid.Lock()
	err := u.grid.Settle(vc)
	liveCells := u.grid.LiveCells()
	u.grid.Unlock()
	if err != nil {
		return err
	}
	u.setLiveCells(liveCells)
	u.refreshView()
	return nil
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) error {
	u.templates.RLock()
	tmpl, ok := u.templates.m[name]
	u.templates.RUnlock()
	if !ok {
		return errors.Wrapf(ErrUnknownTemplate, "%q", name)
	}
	return errors.Wrapf(u.Settle(tmpl.Coordinates), "template %q", name)
}

//SettleWithRandomData populates the universe with random data, returns immediately
//ignored while the simulation is running
func (u *BaseUniverse) SettleWithRandomData() {
	u.exec(func() {
		if rm := u.runningMode(); rm != RunningStateManual && rm != RunningStateFinished {
			return
		}
		u.clear()
		u.grid.Lock()
		w, h := u.grid.Width(), u.grid.Height()
		for i := 0; i < w*h; i++ {
			_ = u.grid.SetAlive(rand.Intn(w), rand.Intn(h), true)
		}
		liveCells := u.grid.LiveCells()
		u.grid.Unlock()
		u.setLiveCells(liveCells)
		u.refreshView()
	})
}

//InverseCell inverses the cell state at point x, y
func (u *BaseUniverse) InverseCell(x int, y int) error {
	u.grid.Lock()
	err := u.grid.Toggle(x, y)
	liveCells := u.grid.LiveCells()
	u.grid.Unlock()
	if err != nil {
		return err
	}
	u.setLiveCells(liveCells)
	u.refreshView()
	return nil
}

//IsAlive returns the cell state at point x, y
func (u *BaseUniverse) IsAlive(x int, y int) (bool, error) {
	u.grid.Lock()
	defer u.grid.Unlock()
	return u.grid.IsAlive(x, y)
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
//the viewer is refreshed only after its Register returned
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	v.Register(u)
	u.views.Lock()
	u.views.list = append(u.views.list, v)
	u.views.Unlock()
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	return u.options
}

//Area returns the copy of current universe area (field where cells is living)
func (u *BaseUniverse) Area() Area {
	u.grid.Lock()
	defer u.grid.Unlock()
	return u.grid.Area()
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.exec(u.run)
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.exec(u.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.exec(u.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.exec(u.clear)
}

//Close stops the main loop, returns immediately
//the commands sent after Close are dropped
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() {
		close(u.closeCh)
	})
}

//exec queues the command for the main loop
//returns false if the universe is closed
func (u *BaseUniverse) exec(cmd func()) bool {
	select {
	case <-u.closeCh:
		return false
	default:
	}
	select {
	case u.controlCh <- cmd:
		return true
	case <-u.closeCh:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

func (u *BaseUniverse) runningMode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

func (u *BaseUniverse) setLiveCells(n int) {
	u.state.Lock()
	u.state.LiveCells = n
	u.state.Unlock()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		select {
		case u.stateCh <- st:
		case <-u.closeCh:
		}
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	u.state.Lock()
	if u.state.RunningMode == RunningStateRun {
		u.state.Unlock()
		return
	}
	u.state.runID++
	id := u.state.runID
	u.state.Unlock()
	u.switchRunningState(RunningStateRun)
	u.refreshView()
	go u.runLoop(id)
}

//isRunning reports whether the run loop with this id is still the active one
func (u *BaseUniverse) isRunning(id int) bool {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.runID == id && u.state.RunningMode == RunningStateRun
}

//runLoop requests one step per Interval tick, with zero Interval steps go back to back
func (u *BaseUniverse) runLoop(id int) {
	var tick <-chan time.Time
	if u.options.Interval > 0 {
		ticker := time.NewTicker(u.options.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for u.isRunning(id) {
		stepped := make(chan struct{})
		ok := u.exec(func() {
			defer close(stepped)
			if u.isRunning(id) {
				u.step()
			}
		})
		if !ok {
			return
		}
		if tick == nil {
			select {
			case <-stepped:
			case <-u.closeCh:
				return
			}
			continue
		}
		if !u.awaitTick(id, tick, stepped) {
			return
		}
	}
}

//awaitTick waits for the first tick after the step is done
//the ticks arriving while the step is still in progress are skipped,
//too many skipped ticks finish the simulation
func (u *BaseUniverse) awaitTick(id int, tick <-chan time.Time, stepped chan struct{}) bool {
	skipped := 0
	for {
		select {
		case <-u.closeCh:
			return false
		case <-tick:
		}
		select {
		case <-stepped:
			return true
		default:
		}
		skipped++
		if skipped > u.options.MaxSkippedTicks {
			log.Printf("universe: %d ticks skipped, the step is slower than the %v interval, finishing", skipped, u.options.Interval)
			u.exec(func() {
				if u.isRunning(id) {
					u.switchRunningState(RunningStateFinished)
					u.refreshView()
				}
			})
			return false
		}
	}
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.runningMode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
		u.refreshView()
	}
}

//step does the new one state calculation for entire universe
//in the Run mode the simulation is finished when all cells are dead, nothing changes or MaxSteps is reached
func (u *BaseUniverse) step() {
	rm := u.runningMode()
	if rm != RunningStateRun {
		rm = RunningStateManual
	}
	u.switchRunningState(RunningStateStep)

	start := time.Now()
	hasLiveEntities, changed := u.nextIteration()

	u.state.Lock()
	u.state.IterationNum++
	u.state.IterationTime = time.Since(start)
	iter := u.state.IterationNum
	u.state.Unlock()

	maxIter := u.options.MaxSteps
	if rm == RunningStateRun && (!hasLiveEntities || !changed || (maxIter != 0 && iter >= maxIter)) {
		rm = RunningStateFinished
	}
	u.switchRunningState(rm)
	u.refreshView()
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.grid.Lock()
	u.grid.Clear()
	u.grid.Unlock()

	u.state.Lock()
	u.state.IterationNum = 0
	u.state.LiveCells = 0
	u.state.IterationTime = 0
	u.state.Unlock()

	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//baseNextIteration does one simulation cycle on the caller goroutine
func (u *BaseUniverse) baseNextIteration() (hasLiveEntities bool, changed bool) {
	u.grid.Lock()
	liveCells, changed := u.grid.advance(1)
	u.grid.Unlock()
	u.setLiveCells(liveCells)
	return liveCells > 0, changed
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	u.views.RLock()
	views := u.views.list
	u.views.RUnlock()
	for _, v := range views {
		v.Refresh()
	}
}
