package company

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateRatingBadge(t *testing.T) {
	// the font ships under static/ relative to the repo root
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unable to get working directory: %v", err)
	}
	if err := os.Chdir(filepath.Join(wd, "..", "..")); err != nil {
		t.Fatalf("unable to change to repo root: %v", err)
	}
	defer os.Chdir(wd)

	badge, err := GenerateRatingBadge(Company{CompanyName: "Acme GmbH", AverageRating: 4.2, TotalReviews: 7})
	if err != nil {
		t.Fatalf("unable to generate badge: %v", err)
	}
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(badge); err != nil {
		t.Fatalf("unable to read badge: %v", err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatalf("badge is not a valid png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != badgeWidth || bounds.Dy() != badgeHeight {
		t.Fatalf("unexpected badge size %dx%d", bounds.Dx(), bounds.Dy())
	}
}
