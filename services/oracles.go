package services

import (
	"context"
	"fmt"

	"fashionapi/looks"
)

var defaultImageModels = []string{
	"black-forest-labs/FLUX.1-schnell",
	"stabilityai/stable-diffusion-xl-base-1.0",
}

// Oracles holds every external AI client configured from the environment.
// Clients without credentials stay disabled and their tiers are skipped.
type Oracles struct {
	Gemini      *GoogleLLMProcessor
	Ark         *ArkStylist
	HuggingFace *HuggingFaceImageClient
	Images      *ImageCacheService

	ImageModels   []string
	StockModelURL string
}

func NewOracles(ctx context.Context) (*Oracles, error) {
	gemini, err := NewGoogleLLMProcessor(ctx, GetEnv("GOOGLE_API_KEY", ""))
	if err != nil {
		return nil, err
	}
	arkStylist, err := NewArkStylist(ctx, GetEnv("ARK_BASE_URL", ""), GetEnv("ARK_API_KEY", ""), GetEnv("ARK_MODEL", ""))
	if err != nil {
		return nil, err
	}
	images, err := NewImageCacheService()
	if err != nil {
		return nil, fmt.Errorf("init image cache: %w", err)
	}
	return &Oracles{
		Gemini:        gemini,
		Ark:           arkStylist,
		HuggingFace:   NewHuggingFaceImageClient(GetEnv("HF_BASE_URL", ""), GetEnv("HF_API_TOKEN", "")),
		Images:        images,
		ImageModels:   GetEnvList("HF_IMAGE_MODELS", defaultImageModels),
		StockModelURL: GetEnv("STOCK_MODEL_IMAGE_URL", ""),
	}, nil
}

func (o *Oracles) LookGenerator() *looks.Generator {
	return looks.NewGenerator(o.Gemini, o.Gemini, o.HuggingFace, o.Images, o.ImageModels, o.StockModelURL)
}
