package looks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fashionapi/cascade"
	"fashionapi/stylist"
)

type Stage string

const (
	StageTryOn       Stage = "try_on"
	StageTextToImage Stage = "text_to_image"
	StageComposite   Stage = "composite"
)

const (
	TryOnTimeout       = 120 * time.Second
	DescriptionTimeout = 20 * time.Second
	TextToImageTimeout = 300 * time.Second

	DefaultMaxAttempts   = 3
	DefaultMaxWarmupWait = 60 * time.Second
	DefaultRetryPause    = 2 * time.Second
)

var stageMessages = map[Stage]string{
	StageTryOn:       "Look generated with virtual try-on of your selected product.",
	StageTextToImage: "Look generated from an AI description of your outfit.",
	StageComposite:   "AI generation unavailable, showing a composed preview of your outfit.",
}

// Input describes the outfit to visualize. Main defaults to the first item.
type Input struct {
	Items           []stylist.Garment
	Main            *stylist.Garment
	ProfilePhotoURL string
	Gender          string
}

type Result struct {
	Image    []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	Stage    Stage  `json:"stage"`
	Message  string `json:"message"`
	BlurHash string `json:"blurhash"`
}

type Generator struct {
	TryOn       TryOnOracle
	Describer   DescriptionOracle
	TextToImage TextToImageOracle
	Fetcher     ImageFetcher

	// Models are tried in order by the text-to-image stage.
	Models        []string
	MaxAttempts   int
	MaxWarmupWait time.Duration
	RetryPause    time.Duration
	// StockModelURL is the reference photo used for try-on.
	StockModelURL string

	compositor *Compositor
	tiers      []cascade.Tier[Input, *Result]
}

func NewGenerator(tryOn TryOnOracle, describer DescriptionOracle, textToImage TextToImageOracle, fetcher ImageFetcher, models []string, stockModelURL string) *Generator {
	g := &Generator{
		TryOn:         tryOn,
		Describer:     describer,
		TextToImage:   textToImage,
		Fetcher:       fetcher,
		Models:        models,
		MaxAttempts:   DefaultMaxAttempts,
		MaxWarmupWait: DefaultMaxWarmupWait,
		RetryPause:    DefaultRetryPause,
		StockModelURL: stockModelURL,
		compositor:    NewCompositor(fetcher),
	}
	g.tiers = []cascade.Tier[Input, *Result]{
		cascade.NewTier(string(StageTryOn), TryOnTimeout, g.tryOnAttempt),
		cascade.NewTier(string(StageTextToImage), TextToImageTimeout, g.textToImageAttempt),
		cascade.NewTier(string(StageComposite), 0, g.compositeAttempt),
	}
	return g
}

// Generate always returns an image. The stage that produced it is reported
// in the result together with a stage specific message.
func (g *Generator) Generate(ctx context.Context, in Input) *Result {
	if in.Main == nil && len(in.Items) > 0 {
		main := in.Items[0]
		in.Main = &main
	}
	result, stage, err := cascade.Run(ctx, in, g.tiers...)
	if err != nil || result == nil {
		log.Printf("[Looks] every stage failed, returning blank canvas: %v", err)
		result, stage = &Result{Image: blankCanvas(), MIMEType: "image/png"}, string(StageComposite)
	}
	result.Stage = Stage(stage)
	result.Message = stageMessages[result.Stage]
	if hash, err := BlurHash(result.Image); err == nil {
		result.BlurHash = hash
	} else {
		log.Printf("[Looks] blurhash skipped: %v", err)
	}
	return result
}

func (g *Generator) tryOnAttempt(ctx context.Context, in Input) (*Result, error) {
	if g.TryOn == nil || !g.TryOn.Available() || g.Fetcher == nil || g.StockModelURL == "" {
		return nil, cascade.ErrUnavailable
	}
	if in.Main == nil || in.Main.ImageURL == "" {
		return nil, fmt.Errorf("%w: main product has no image", cascade.ErrUnavailable)
	}
	garmentPhoto, err := g.Fetcher.Fetch(ctx, in.Main.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch product image: %w", err)
	}
	modelPhoto, err := g.Fetcher.Fetch(ctx, g.StockModelURL)
	if err != nil {
		return nil, fmt.Errorf("fetch model photo: %w", err)
	}
	img, err := g.TryOn.TryOn(ctx, modelPhoto, garmentPhoto, garmentLabel(*in.Main))
	if err != nil {
		return nil, err
	}
	return imageResult(img)
}

func (g *Generator) textToImageAttempt(ctx context.Context, in Input) (*Result, error) {
	if g.TextToImage == nil || !g.TextToImage.Available() || len(g.Models) == 0 {
		return nil, cascade.ErrUnavailable
	}
	prompt := ImagePrompt(g.describe(ctx, in.Items), in.Gender)

	var lastErr error
	for _, model := range g.Models {
		for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
			img, err := g.TextToImage.GenerateImage(ctx, model, prompt)
			if err == nil {
				log.Printf("[Looks] %s produced an image on attempt %d", model, attempt)
				return imageResult(img)
			}
			lastErr = err
			if attempt == g.MaxAttempts {
				break
			}
			wait := g.RetryPause
			var warming *WarmingUpError
			if errors.As(err, &warming) {
				wait = min(warming.Wait, g.MaxWarmupWait)
			}
			log.Printf("[Looks] %s attempt %d/%d failed: %v, waiting %v", model, attempt, g.MaxAttempts, err, wait)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
		}
		log.Printf("[Looks] giving up on %s: %v", model, lastErr)
	}
	return nil, fmt.Errorf("all text-to-image models failed: %w", lastErr)
}

func (g *Generator) compositeAttempt(ctx context.Context, in Input) (*Result, error) {
	data, err := g.compositor.Compose(ctx, in.ProfilePhotoURL, in.Items)
	if err != nil {
		return nil, err
	}
	return &Result{Image: data, MIMEType: "image/png"}, nil
}

// describe asks the description oracle for a sentence and falls back to
// joining item colors and names.
func (g *Generator) describe(ctx context.Context, items []stylist.Garment) string {
	if g.Describer != nil && g.Describer.Available() {
		descCtx, cancel := context.WithTimeout(ctx, DescriptionTimeout)
		defer cancel()
		text, err := g.Describer.DescribeOutfit(descCtx, items)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		log.Printf("[Looks] description oracle failed, using plain description: %v", err)
	}
	return PlainDescription(items)
}

// PlainDescription joins "color name" labels: "a, b and c".
func PlainDescription(items []stylist.Garment) string {
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, garmentLabel(item))
	}
	switch len(labels) {
	case 0:
		return "a stylish everyday outfit"
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}

func ImagePrompt(description string, gender string) string {
	model := "fashion model"
	switch strings.ToLower(gender) {
	case "men", "male", "man":
		model = "male fashion model"
	case "women", "female", "woman":
		model = "female fashion model"
	}
	return fmt.Sprintf("Full-body studio photograph of a %s wearing %s. Professional studio lighting, plain light grey background, sharp focus, high detail, editorial fashion catalog style.", model, description)
}

func garmentLabel(g stylist.Garment) string {
	if color := g.FirstColor(); color != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(color)) {
		return color + " " + g.Name
	}
	return g.Name
}

func imageResult(img *Image) (*Result, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, errors.New("oracle returned an empty image")
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &Result{Image: img.Data, MIMEType: mime}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
