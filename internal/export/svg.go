package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/viz"
)

// SeriesColors are the stroke colours of x1 and x2 in WriteTrajectorySVG.
var SeriesColors = [2]string{"#ff4757", "#00a8cc"}

// WriteCanvasSVG draws every set braille dot of canvas as a circle. Each
// sub-pixel becomes a scale x scale cell.
func WriteCanvasSVG(w io.Writer, canvas *viz.Canvas, scale float64) error {
	if canvas == nil {
		return fmt.Errorf("export: nil canvas")
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	// braille dot bits by sub-row and sub-column
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := int(canvas.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteSceneSVG renders the masses and springs at sample i of tr.
func WriteSceneSVG(w io.Writer, tr *dynamo.Trajectory, i int, scale float64) error {
	if i < 0 || i >= tr.Len() {
		return fmt.Errorf("export: sample %d out of range [0, %d)", i, tr.Len())
	}
	scene := viz.NewScene(60, 16)
	canvas := viz.NewCanvas(scene.Width, scene.Height)
	scene.Draw(canvas, tr.At(i))
	return WriteCanvasSVG(w, canvas, scale)
}

// WriteTrajectorySVG plots x1 and x2 against time as two paths sharing one
// vertical scale.
func WriteTrajectorySVG(w io.Writer, tr *dynamo.Trajectory, width, height int) error {
	if tr.Len() < 2 {
		return fmt.Errorf("export: need at least 2 samples")
	}

	series := [2][]float64{tr.Series(physics.X1), tr.Series(physics.X2)}
	minX, maxX := tr.Time(0), tr.Time(tr.Len()-1)
	minY, maxY := series[0][0], series[0][0]
	for _, s := range series {
		for _, v := range s {
			minY, maxY = min(minY, v), max(maxY, v)
		}
	}

	// 10% vertical padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY := maxX-minX, maxY-minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for k, s := range series {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, SeriesColors[k])
		for i, v := range s {
			x := (tr.Time(i) - minX) / rangeX * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
