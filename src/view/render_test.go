package view

import (
	"testing"

	"github.com/Manwithacape/Game-Of-Life/src/universe"
)

func TestRender(t *testing.T) {
	g, err := universe.NewGrid(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	_ = g.Settle([][]int{{0, 0}, {2, 1}})
	if got, expected := Render(g.Area(), "#", "."), "#..\n..#"; got != expected {
		t.Fatalf("Render = %q, expected %q", got, expected)
	}
	g.Clear()
	if got, expected := Render(g.Area(), "#", "."), "...\n..."; got != expected {
		t.Fatalf("Render of empty area = %q, expected %q", got, expected)
	}
}
