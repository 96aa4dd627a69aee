package universe

/*
	Universe implementation with multithreaded computation algorithm
	the field is splitted into the row bands each of which is computed by individual goroutine,
	the new generation is committed only after all the bands are done
*/

type MultithreadedUniverse struct {
	*BaseUniverse
	workers int
}

func NewMultithreadedUniverse(o *Options, stateCh chan Status) (Universe, error) {
	bu, err := newBaseUniverse(o, stateCh, "multithreaded")
	if err != nil {
		return nil, err
	}
	mu := MultithreadedUniverse{BaseUniverse: bu, workers: bu.options.Workers}
	if mu.workers < 1 {
		mu.workers = DefWorkers
	}
	//redefine the nextIteration
	mu.BaseUniverse.nextIteration = mu.nextIteration

	bands := splitRows(mu.options.Height, mu.workers)
	mu.options.Advanced["Workers"] = mu.workers
	mu.options.Advanced["Bands"] = len(bands)
	mu.options.Advanced["Rows per worker"] = bands[0].y2 - bands[0].y1
	mu.state.Details["Workers"] = mu.workers
	mu.state.Details["Bands"] = len(bands)
	mu.start()
	return &mu, nil
}

//nextIteration calculates next state for the universe
//the bands are computed by the worker goroutines, then the buffers are swapped
func (mu *MultithreadedUniverse) nextIteration() (hasLiveEntities bool, changed bool) {
	mu.grid.Lock()
	liveCells, changed := mu.grid.advance(mu.workers)
	mu.grid.Unlock()
	mu.setLiveCells(liveCells)
	return liveCells > 0, changed
}
