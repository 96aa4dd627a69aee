package universe

type Universe interface {
	Status() Status
	Options() Options
	Area() Area
	StateCh() chan Status
	AddTemplate(tmpl Template)
	Templates() []Template
	SettleTemplate(name string) error
	SettleWithRandomData()
	Settle(vc [][]int) error
	InverseCell(x int, y int) error
	IsAlive(x int, y int) (bool, error)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}
