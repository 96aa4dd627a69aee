package universe

import "github.com/pkg/errors"

var ErrUnknownTemplate = errors.New("unknown template")

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//DefaultTemplates are registered in every new universe
var DefaultTemplates = []Template{
	{"blinker", "period 2 oscillator", [][]int{{1, 0}, {1, 1}, {1, 2}}},
	{"glider", "moves one cell diagonally every 4 generations", [][]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}},
	{"block", "still life", [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}},
	{"beacon", "period 2 oscillator", [][]int{{1, 1}, {2, 1}, {1, 2}, {4, 3}, {3, 4}, {4, 4}}},
	{"testSample", "block with a tail", [][]int{
		{1, 1}, {1, 2},
		{2, 1}, {2, 2},
		{3, 3},
		{4, 2},
		{4, 3},
		{5, 3},
	}},
}
