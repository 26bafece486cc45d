package company

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const (
	badgeWidth  = 600
	badgeHeight = 160
	maxStars    = 5
)

// GenerateRatingBadge renders a shareable PNG badge with the company
// name, its average rating and a row of stars.
func GenerateRatingBadge(c Company) (io.ReadWriter, error) {
	dc := gg.NewContext(badgeWidth, badgeHeight)
	w := bytes.NewBuffer([]byte{})

	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.RGBA{R: 0, G: 0, B: 144, A: 255})

	fontPath := filepath.Join("static", "assets", "fonts", "dejavu", "DejaVuSans.ttf")
	if err := dc.LoadFontFace(fontPath, 32); err != nil {
		return w, errors.Wrap(err, "load font for rating badge")
	}
	title := fmt.Sprintf("%s - %.1f out of 5 (%d reviews)", c.CompanyName, c.AverageRating, c.TotalReviews)
	dc.DrawStringWrapped(title, 30, 20, 0, 0, badgeWidth-60, 1.3, gg.AlignLeft)

	starColor := color.RGBA{R: 240, G: 180, B: 0, A: 255}
	emptyColor := color.RGBA{R: 210, G: 210, B: 210, A: 255}
	filled := int(math.Round(c.AverageRating))
	for i := 0; i < maxStars; i++ {
		if i < filled {
			dc.SetColor(starColor)
		} else {
			dc.SetColor(emptyColor)
		}
		x := 50.0 + float64(i)*50.0
		drawStar(dc, x, 115, 20)
	}

	if err := png.Encode(w, dc.Image()); err != nil {
		return w, err
	}
	return w, nil
}

func drawStar(dc *gg.Context, cx, cy, r float64) {
	dc.NewSubPath()
	for i := 0; i < 10; i++ {
		radius := r
		if i%2 == 1 {
			radius = r / 2.5
		}
		angle := float64(i)*math.Pi/5 - math.Pi/2
		dc.LineTo(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
	}
	dc.ClosePath()
	dc.Fill()
}
