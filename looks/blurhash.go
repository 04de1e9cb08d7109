package looks

import (
	"fmt"

	"github.com/bbrks/go-blurhash"
	"github.com/disintegration/imaging"
)

// A small thumbnail produces nearly the same hash as the full image.
const blurHashSize = 64

// BlurHash computes a 4x3 component placeholder hash for encoded image bytes.
func BlurHash(data []byte) (string, error) {
	img, err := decodeBounded(data)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	thumbnail := imaging.Fit(img, blurHashSize, blurHashSize, imaging.Box)
	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}
