package universe

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidOptions = errors.New("invalid options")

//Options represents the Universe's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Workers         int                    //used by the multithreaded engine only
	Advanced        map[string]interface{} //advanced options (engine specific)
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 10
	DefHeight             = 10
	DefMaxSkippedTicks    = 5
	DefWorkers            = 4
)

var DefaultUniverseOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
	Workers:         DefWorkers,
}

//Validate checks the options which can't be fixed by the engine itself
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Wrapf(ErrInvalidDimension, "%d x %d", o.Width, o.Height)
	}
	if o.Interval < 0 {
		return errors.Wrapf(ErrInvalidOptions, "negative interval %v", o.Interval)
	}
	if o.MaxSteps < 0 || o.MaxSkippedTicks < 0 || o.Workers < 0 {
		return errors.Wrapf(ErrInvalidOptions, "negative limit (maxSteps %d, maxSkippedTicks %d, workers %d)",
			o.MaxSteps, o.MaxSkippedTicks, o.Workers)
	}
	return nil
}

//fileOptions is the JSON layout of the options file, absent fields keep their current value
type fileOptions struct {
	Width           *int    `json:"width"`
	Height          *int    `json:"height"`
	Interval        *string `json:"interval"`
	MaxSteps        *int    `json:"max_steps"`
	MaxSkippedTicks *int    `json:"max_skipped_ticks"`
	Workers         *int    `json:"workers"`
}

//LoadOptions reads the JSON options file and overrides the fields of o present in it
func LoadOptions(filename string, o *Options) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "[LoadOptions] failed to read file: %+v", filename)
	}

	var fo fileOptions
	if err = json.Unmarshal(data, &fo); err != nil {
		return errors.Wrapf(err, "[LoadOptions] failed to unmarshal data from file: %+v", filename)
	}

	var interval time.Duration
	if fo.Interval != nil {
		if interval, err = time.ParseDuration(*fo.Interval); err != nil {
			return errors.Wrapf(ErrInvalidOptions, "[LoadOptions] bad interval %q in file %+v: %v", *fo.Interval, filename, err)
		}
		o.Interval = interval
	}
	setInt(&o.Width, fo.Width)
	setInt(&o.Height, fo.Height)
	setInt(&o.MaxSteps, fo.MaxSteps)
	setInt(&o.MaxSkippedTicks, fo.MaxSkippedTicks)
	setInt(&o.Workers, fo.Workers)
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
