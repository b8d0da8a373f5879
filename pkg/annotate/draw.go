package annotate

import (
	"image"
	"image/color"
)

// strokeLine walks the segment with Bresenham and stamps a filled disc at
// every step, which gives the fixed-width, round-capped stroke the client
// renders.
func strokeLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, width int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	e := dx - dy
	for {
		stampDisc(img, x0, y0, col, width/2)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

func stampDisc(img *image.RGBA, cx, cy int, col color.Color, r int) {
	if r < 1 {
		if image.Pt(cx, cy).In(img.Bounds()) {
			img.Set(cx, cy, col)
		}
		return
	}
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			ddx, ddy := x-cx, y-cy
			if ddx*ddx+ddy*ddy <= r*r && image.Pt(x, y).In(img.Bounds()) {
				img.Set(x, y, col)
			}
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
