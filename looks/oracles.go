package looks

import (
	"context"
	"fmt"
	"time"

	"fashionapi/stylist"
)

// Image is an encoded raster image as returned by an oracle.
type Image struct {
	Data     []byte
	MIMEType string
}

// TryOnOracle renders a model photo wearing the given garment.
type TryOnOracle interface {
	Available() bool
	TryOn(ctx context.Context, modelPhoto []byte, garmentPhoto []byte, garmentDescription string) (*Image, error)
}

// DescriptionOracle writes one short sentence describing an outfit.
type DescriptionOracle interface {
	Available() bool
	DescribeOutfit(ctx context.Context, items []stylist.Garment) (string, error)
}

// TextToImageOracle synthesizes an image from a prompt with the named model.
// While the model is still loading it returns a *WarmingUpError.
type TextToImageOracle interface {
	Available() bool
	GenerateImage(ctx context.Context, model string, prompt string) (*Image, error)
}

// ImageFetcher downloads image bytes by URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// WarmingUpError reports that a model is loading and suggests how long to wait.
type WarmingUpError struct {
	Model string
	Wait  time.Duration
}

func (e *WarmingUpError) Error() string {
	return fmt.Sprintf("model %s is warming up, retry in %v", e.Model, e.Wait)
}
