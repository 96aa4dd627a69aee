package universe

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidDimension = errors.New("invalid grid dimension")
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrBadCoordinate    = errors.New("coordinate is not an [x, y] pair")
)

//DefMinRowsPerWorker is the smallest band of rows handed to one worker
const DefMinRowsPerWorker = 3

type Cell bool

//Area is one generation of the field, Entities[y][x]
type Area struct {
	Width    int
	Height   int
	Entities [][]Cell
}

//Grid is the Life engine: a bounded W x H field of cells
//cells outside the field are dead, the field never wraps around
type Grid struct {
	width  int
	height int
	cur    Area
	next   Area
}

//NewGrid creates a grid with all cells dead
func NewGrid(width int, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "%d x %d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cur:    createArea(width, height),
		next:   createArea(width, height),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) inBounds(x int, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) checkBounds(x int, y int) error {
	if !g.inBounds(x, y) {
		return errors.Wrapf(ErrOutOfBounds, "cell (%d, %d) on %d x %d grid", x, y, g.width, g.height)
	}
	return nil
}

//Toggle flips the cell at x, y
func (g *Grid) Toggle(x int, y int) error {
	if err := g.checkBounds(x, y); err != nil {
		return err
	}
	g.cur.Entities[y][x] = !g.cur.Entities[y][x]
	return nil
}

//IsAlive reports the state of the cell at x, y
func (g *Grid) IsAlive(x int, y int) (bool, error) {
	if err := g.checkBounds(x, y); err != nil {
		return false, err
	}
	return bool(g.cur.Entities[y][x]), nil
}

//SetAlive writes the state of the cell at x, y
func (g *Grid) SetAlive(x int, y int, alive bool) error {
	if err := g.checkBounds(x, y); err != nil {
		return err
	}
	g.cur.Entities[y][x] = Cell(alive)
	return nil
}

//Settle makes every [x, y] pair of vc alive
//all coordinates are checked first, nothing is written if one of them is not a pair (ErrBadCoordinate)
//or is outside the grid (ErrOutOfBounds)
func (g *Grid) Settle(vc [][]int) error {
	for _, v := range vc {
		if len(v) != 2 {
			return errors.Wrapf(ErrBadCoordinate, "%v", v)
		}
		if err := g.checkBounds(v[0], v[1]); err != nil {
			return err
		}
	}
	for _, v := range vc {
		g.cur.Entities[v[1]][v[0]] = true
	}
	return nil
}

//Clear kills all cells
func (g *Grid) Clear() {
	for y := range g.cur.Entities {
		clear(g.cur.Entities[y])
	}
}

//LiveCells counts the live cells of the current generation
func (g *Grid) LiveCells() (n int) {
	for y := range g.cur.Entities {
		for _, e := range g.cur.Entities[y] {
			if e {
				n++
			}
		}
	}
	return
}

//Area returns a copy of the current generation
func (g *Grid) Area() Area {
	a := createArea(g.width, g.height)
	for y := range g.cur.Entities {
		copy(a.Entities[y], g.cur.Entities[y])
	}
	return a
}

//CountAliveNeighbours counts live cells in the Moore neighbourhood of x, y
func (g *Grid) CountAliveNeighbours(x int, y int) (int, error) {
	if err := g.checkBounds(x, y); err != nil {
		return 0, err
	}
	return g.neighbours(x, y), nil
}

func (g *Grid) neighbours(x int, y int) (n int) {
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			nx := x + i
			ny := y + j
			//coordinates outside the area are dead
			if !g.inBounds(nx, ny) {
				continue
			}
			if g.cur.Entities[ny][nx] {
				n++
			}
		}
	}
	return
}

//nextState is the rule table: a live cell survives with 2 or 3 neighbours,
//a dead cell is born with exactly 3
func nextState(alive bool, liveNeighbours int) bool {
	if alive {
		return liveNeighbours == 2 || liveNeighbours == 3
	}
	return liveNeighbours == 3
}

//Advance computes the next generation and replaces the current one with it
func (g *Grid) Advance() {
	g.advance(1)
}

//AdvanceParallel is Advance with the next generation computed by up to workers goroutines
func (g *Grid) AdvanceParallel(workers int) {
	g.advance(workers)
}

//advance fills the next buffer from the current one and swaps them
//returns the live cells count of the new generation and whether any cell changed
func (g *Grid) advance(workers int) (liveCells int, changed bool) {
	bands := splitRows(g.height, workers)
	if len(bands) == 1 {
		liveCells, changed = g.calcRows(0, g.height)
	} else {
		var eg errgroup.Group
		eg.SetLimit(workers)
		for i := range bands {
			b := &bands[i]
			eg.Go(func() error {
				b.liveCells, b.changed = g.calcRows(b.y1, b.y2)
				return nil
			})
		}
		//calcRows can't fail
		_ = eg.Wait()
		for _, b := range bands {
			liveCells += b.liveCells
			changed = changed || b.changed
		}
	}
	g.cur, g.next = g.next, g.cur
	return
}

//calcRows calculates the next state for rows [y1, y2) into the next buffer
func (g *Grid) calcRows(y1 int, y2 int) (liveCells int, changed bool) {
	for y := y1; y < y2; y++ {
		row := g.cur.Entities[y]
		for x := range row {
			ns := nextState(bool(row[x]), g.neighbours(x, y))
			if ns {
				liveCells++
			}
			changed = changed || ns != bool(row[x])
			g.next.Entities[y][x] = Cell(ns)
		}
	}
	return
}

//band is a range of rows [y1, y2) computed by one worker
type band struct {
	y1        int
	y2        int
	liveCells int
	changed   bool
}

//splitRows splits height rows into at most workers bands of at least DefMinRowsPerWorker rows
func splitRows(height int, workers int) []band {
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (height + workers - 1) / workers
	if rowsPerWorker < DefMinRowsPerWorker {
		rowsPerWorker = DefMinRowsPerWorker
	}
	bands := make([]band, 0, workers)
	for y1 := 0; y1 < height; y1 += rowsPerWorker {
		bands = append(bands, band{y1: y1, y2: min(y1+rowsPerWorker, height)})
	}
	return bands
}

//createArea allocates the area on a single backing slice
func createArea(width int, height int) Area {
	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	b := make([]Cell, width*height)
	for i := range area.Entities {
		start := width * i
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}
