package plans

import (
	"strings"

	"github.com/julianstephens/timebox/internal/cli"
)

type SlotsCmd struct {
	Compact bool `help:"Print all labels on one line."`
}

func (c *SlotsCmd) Run(ctx *cli.Context) error {
	grid := ctx.Grid()
	if grid.Len() == 0 {
		ctx.Println("No slots: the planning window is empty.")
		return nil
	}
	if c.Compact {
		ctx.Println(strings.Join(grid.Labels(), " "))
		return nil
	}
	for _, label := range grid.Labels() {
		ctx.Println(label)
	}
	return nil
}
