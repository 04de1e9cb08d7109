package looks

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"sync"
	"time"

	"fashionapi/stylist"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	CanvasWidth  = 1024
	CanvasHeight = 768

	profileX, profileY = 20, 24
	profileW, profileH = 420, 720

	gridX, gridY = 460, 24
	gridCols     = 2
	gridRows     = 3
	cellW, cellH = 270, 230
	cellGap      = 14
	cellPadding  = 8
	MaxGridItems = gridCols * gridRows

	downloadTimeout = 15 * time.Second

	// MaxDecodePixels caps the declared size of any image we decode.
	MaxDecodePixels = 40_000_000
)

var (
	canvasColor      = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	cellColor        = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	placeholderColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

// Compositor lays out the shopper photo next to a grid of outfit items.
// Output depends only on the fetched images.
type Compositor struct {
	fetcher ImageFetcher
}

func NewCompositor(fetcher ImageFetcher) *Compositor {
	return &Compositor{fetcher: fetcher}
}

// Compose never fails because of a missing or broken image; those become
// placeholder blocks. Items past the grid capacity are dropped.
func (c *Compositor) Compose(ctx context.Context, profilePhotoURL string, items []stylist.Garment) ([]byte, error) {
	if len(items) > MaxGridItems {
		items = items[:MaxGridItems]
	}
	urls := make([]string, 0, len(items)+1)
	urls = append(urls, profilePhotoURL)
	for _, item := range items {
		urls = append(urls, item.ImageURL)
	}
	images := c.fetchAll(ctx, urls)

	canvas := imaging.New(CanvasWidth, CanvasHeight, canvasColor)

	profileBox := imaging.New(profileW, profileH, placeholderColor)
	if profile := images[0]; profile != nil {
		profileBox = imaging.New(profileW, profileH, cellColor)
		fitted := imaging.Fit(profile, profileW, profileH, imaging.Lanczos)
		profileBox = imaging.PasteCenter(profileBox, fitted)
	}
	canvas = imaging.Paste(canvas, profileBox, image.Pt(profileX, profileY))

	for i := range items {
		col, row := i%gridCols, i/gridCols
		origin := image.Pt(gridX+col*(cellW+cellGap), gridY+row*(cellH+cellGap))
		canvas = imaging.Paste(canvas, renderCell(images[i+1]), origin)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCell(img image.Image) *image.NRGBA {
	if img == nil {
		return imaging.New(cellW, cellH, placeholderColor)
	}
	cell := imaging.New(cellW, cellH, cellColor)
	thumb := imaging.Fit(img, cellW-2*cellPadding, cellH-2*cellPadding, imaging.Lanczos)
	return imaging.PasteCenter(cell, whitenBackground(thumb, 225, 248, 0.5))
}

// fetchAll downloads and decodes every url concurrently. Failed slots stay nil.
func (c *Compositor) fetchAll(ctx context.Context, urls []string) []image.Image {
	images := make([]image.Image, len(urls))
	if c.fetcher == nil {
		return images
	}
	var wg sync.WaitGroup
	for i, url := range urls {
		if url == "" {
			continue
		}
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Compositor] download of %s panicked: %v", url, r)
				}
			}()
			fetchCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
			defer cancel()
			data, err := c.fetcher.Fetch(fetchCtx, url)
			if err != nil {
				log.Printf("[Compositor] failed to download %s: %v", url, err)
				return
			}
			img, err := decodeBounded(data)
			if err != nil {
				log.Printf("[Compositor] failed to decode %s: %v", url, err)
				return
			}
			images[i] = img
		}(i, url)
	}
	wg.Wait()
	return images
}

// decodeBounded reads the image header first and refuses to decode images
// whose dimensions exceed MaxDecodePixels.
func decodeBounded(data []byte) (image.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > MaxDecodePixels {
		return nil, fmt.Errorf("%s image of %dx%d exceeds decode limit", format, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// blankCanvas is the last resort when even encoding the composite failed.
func blankCanvas() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, imaging.New(CanvasWidth, CanvasHeight, canvasColor))
	return buf.Bytes()
}
