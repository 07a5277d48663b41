package stable_diffusion_api

import (
	"context"

	"waifu_bot/entities"
)

type StableDiffusionAPI interface {
	// TextToImage sends a single txt2img request. Errors are always *GenerationError.
	TextToImage(ctx context.Context, req *entities.TextToImageRequest) (*entities.TextToImageResponse, error)
	// Alive reports whether the web UI answers on its root URL.
	Alive(ctx context.Context) bool
	Host(url ...string) string
}
