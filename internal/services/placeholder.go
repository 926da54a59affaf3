package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
)

const (
	placeholderRenderSize = 1024
	placeholderFinalSize  = 512
)

// placeholderPalette matches the card backgrounds of the browse grid.
var placeholderPalette = []color.NRGBA{
	{R: 0x0e, G: 0xa5, B: 0xe9, A: 0xff}, // sky
	{R: 0x63, G: 0x66, B: 0xf1, A: 0xff}, // indigo
	{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}, // emerald
	{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}, // amber
	{R: 0xef, G: 0x44, B: 0x44, A: 0xff}, // red
	{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}, // violet
}

// PlaceholderService draws a card image for entries that have no photo yet:
// the headword's initial on a solid background, uploaded through the regular
// image path so it is cleaned up with the entry.
type PlaceholderService interface {
	GenerateEntryImage(ctx context.Context, id uuid.UUID) (string, error)
}

type placeholderService struct {
	log        *logger.Logger
	dictionary DictionaryService
	fontFace   font.Face
}

func NewPlaceholderService(log *logger.Logger, dictionary DictionaryService, fontPath string) (PlaceholderService, error) {
	serviceLog := log.With("service", "PlaceholderService")

	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("placeholder font path is empty")
	}
	face, err := loadFontFace(fontPath, 420)
	if err != nil {
		return nil, fmt.Errorf("load placeholder font: %w", err)
	}

	return &placeholderService{
		log:        serviceLog,
		dictionary: dictionary,
		fontFace:   face,
	}, nil
}

func (ps *placeholderService) GenerateEntryImage(ctx context.Context, id uuid.UUID) (string, error) {
	entry, err := ps.dictionary.Get(ctx, id)
	if err != nil {
		return "", err
	}

	word := entry.SencotenWord
	if word == "" {
		word = entry.EnglishWord
	}

	rendered := ps.render(initialOf(word), colorFor(id))

	var buf bytes.Buffer
	if err := png.Encode(&buf, rendered); err != nil {
		return "", fmt.Errorf("encode placeholder: %w", err)
	}

	url, err := ps.dictionary.SaveImage(ctx, id, id.String()+".png", &buf)
	if err != nil {
		return "", err
	}
	ps.log.Info("Generated placeholder image", "entryID", id, "url", url)
	return url, nil
}

// render draws at double size and downscales for smoother glyph edges.
func (ps *placeholderService) render(initial string, bg color.NRGBA) image.Image {
	dc := gg.NewContext(placeholderRenderSize, placeholderRenderSize)
	dc.SetColor(bg)
	dc.Clear()

	dc.SetFontFace(ps.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initial, placeholderRenderSize/2, placeholderRenderSize/2, 0.5, 0.5)

	dst := image.NewNRGBA(image.Rect(0, 0, placeholderFinalSize, placeholderFinalSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)
	return dst
}

func initialOf(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return "?"
	}
	runes := []rune(word)
	return strings.ToUpper(string(runes[0]))
}

// colorFor picks a stable palette entry per id so regenerating keeps the
// same card color.
func colorFor(id uuid.UUID) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	return placeholderPalette[h.Sum32()%uint32(len(placeholderPalette))]
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}
