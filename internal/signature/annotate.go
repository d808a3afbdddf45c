package signature

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

// Annotator renders a signature with a caption line underneath, the archival
// form shown on approved contracts ("Signé le ...").
type Annotator struct {
	log      *logger.Logger
	fontFace font.Face
}

const captionPointSize = 14

// NewAnnotator loads the caption font from SIGNATURE_FONT. The annotator is
// optional equipment: when the variable is unset the constructor fails and
// callers fall back to the plain raster.
func NewAnnotator(log *logger.Logger) (*Annotator, error) {
	annotatorLog := log.With("service", "SignatureAnnotator")

	fontPath := os.Getenv("SIGNATURE_FONT")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("Env var SIGNATURE_FONT is empty")
	}
	annotatorLog.Info("Loading signature caption font", "font", fontPath)

	face, err := loadFontFace(fontPath, captionPointSize)
	if err != nil {
		return nil, fmt.Errorf("could not load signature font: %w", err)
	}
	return &Annotator{log: annotatorLog, fontFace: face}, nil
}

// Render draws the pad's strokes with a caption strip below, white-backed so
// the archived image stays legible outside the app.
func (a *Annotator) Render(p *Pad, signer string, signedAt time.Time) ([]byte, error) {
	const strip = 28

	w, h := p.Width(), p.Height()
	dc := gg.NewContext(w, h+strip)

	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(0, 0, float64(w), float64(h+strip))
	dc.Fill()

	dc.DrawImage(Render(p), 0, 0)

	caption := Caption(signer, signedAt)
	dc.SetFontFace(a.fontFace)
	dc.SetRGB255(0x47, 0x55, 0x69)
	tw, th := dc.MeasureString(caption)
	dc.DrawString(caption, (float64(w)-tw)/2, float64(h)+(strip+th)/2)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode annotated signature: %w", err)
	}
	return buf.Bytes(), nil
}

// Caption formats the archival line shown under a signature.
func Caption(signer string, signedAt time.Time) string {
	when := signedAt.Format("02/01/2006 à 15:04")
	if strings.TrimSpace(signer) == "" {
		return fmt.Sprintf("Signé le %s", when)
	}
	return fmt.Sprintf("Signé par %s le %s", signer, when)
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
