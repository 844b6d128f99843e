package aigateway

import (
	"context"
	"fmt"

	"FitAICoach/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

var imageModalities = []string{"image", "text"}

// ImageCache remembers generated image references per (category, line) so a
// line clicked twice does not cost a second generation.
type ImageCache struct {
	entries *lru.Cache[string, string]
}

// NewImageCache creates a cache holding at most size entries.
func NewImageCache(size int) (*ImageCache, error) {
	if size <= 0 {
		size = 1
	}
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &ImageCache{entries: entries}, nil
}

func cacheKey(req models.ImageRequest) string {
	return string(req.Type) + "|" + req.Prompt
}

func (ic *ImageCache) Get(req models.ImageRequest) (string, bool) {
	return ic.entries.Get(cacheKey(req))
}

func (ic *ImageCache) Add(req models.ImageRequest, url string) {
	ic.entries.Add(cacheKey(req), url)
}

func (ic *ImageCache) Len() int {
	return ic.entries.Len()
}

// GenerateImage returns an image reference (usually a data URL) for a plan line.
func (c *Client) GenerateImage(ctx context.Context, log *zerolog.Logger, req models.ImageRequest) (string, error) {
	if url, ok := c.images.Get(req); ok {
		log.Debug().Str("type", string(req.Type)).Msg("Image cache hit")
		return url, nil
	}

	payload := ChatPayload{
		Model: c.imageModel,
		Messages: []ChatMessage{
			{Role: "user", Content: BuildImagePrompt(req)},
		},
		Modalities: imageModalities,
	}

	resp, err := c.callGateway(ctx, log, payload)
	if err != nil {
		return "", err
	}

	images := resp.Choices[0].Message.Images
	if len(images) == 0 || images[0].ImageURL.URL == "" {
		return "", fmt.Errorf("%w: no image in gateway response", models.ErrGenerationFailed)
	}

	url := images[0].ImageURL.URL
	c.images.Add(req, url)
	return url, nil
}
