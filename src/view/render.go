package view

import (
	"bytes"

	"github.com/Manwithacape/Game-Of-Life/src/universe"
)

//Render draws the area line by line, one filler per cell
func Render(a universe.Area, liveFiller string, deadFiller string) string {
	var b bytes.Buffer
	for i, l := range a.Entities {
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		for _, e := range l {
			if e {
				b.WriteString(liveFiller)
			} else {
				b.WriteString(deadFiller)
			}
		}
	}
	return b.String()
}
