package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sri-shubham/Everclimb/internal/chunk"
)

var (
	terrainStyles = map[chunk.Terrain]lipgloss.Style{
		chunk.Dirt:  lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
		chunk.Stone: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		chunk.Mud:   lipgloss.NewStyle().Foreground(lipgloss.Color("58")),
		chunk.Ice:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	}
	itemStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("2")).Padding(0, 1)
)

func terrainGlyph(t chunk.Terrain) string {
	switch t {
	case chunk.Dirt:
		return "."
	case chunk.Stone:
		return "#"
	case chunk.Mud:
		return "~"
	case chunk.Ice:
		return "*"
	}
	return "?"
}

func itemGlyph(it chunk.Item) string {
	switch it {
	case chunk.Boots:
		return "b"
	case chunk.Food:
		return "f"
	case chunk.Coin:
		return "$"
	}
	return ""
}

// renderGrid draws one glyph per cell, row 0 first, with a caret under the
// entrance column. Items replace the terrain glyph.
func renderGrid(c *chunk.Chunk, color bool) string {
	var b strings.Builder
	for r := 0; r < c.Rows(); r++ {
		for q := 0; q < c.Cols(); q++ {
			t, it := c.TerrainAt(q, r), c.ItemAt(q, r)
			g := terrainGlyph(t)
			style := terrainStyles[t]
			if ig := itemGlyph(it); ig != "" {
				g, style = ig, itemStyle
			}
			if color {
				g = style.Render(g)
			}
			b.WriteString(g)
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", c.EntranceQ()))
	b.WriteString("^")
	return b.String()
}

func previewCmd(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	var g genFlags
	g.register(fs)
	plain := fs.Bool("plain", false, "disable colors")
	_ = fs.Parse(args)

	cfg, _, gen, err := g.setup()
	if err != nil {
		return err
	}
	c := gen.Generate(g.request(cfg))

	header := headerStyle.Render(fmt.Sprintf("level %d  seed %08x  %dx%d  repairs %d",
		c.Level(), c.Seed(), c.Cols(), c.Rows(), c.Repairs()))
	legend := "  . dirt  # stone  ~ mud  * ice  b boots  f food  $ coin"
	body := renderGrid(c, !*plain)
	if *plain {
		fmt.Println(header)
		fmt.Println(paramsLine(c.Params()))
		fmt.Println(body)
		fmt.Println(legend)
		return nil
	}
	fmt.Println(lipgloss.JoinVertical(lipgloss.Left, header, paramsLine(c.Params()), paneStyle.Render(body), legend))
	return nil
}
