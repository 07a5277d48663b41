package waifu

import "waifu_bot/entities"

const (
	DefaultSampler  = "DDIM"
	DefaultSteps    = 50
	DefaultCFGScale = 12
)

// NewRequest combines an invocation with the fixed generation parameters.
// restoreSettings is sent as override_settings_restore_after and decides whether the web UI
// switches back to its previous checkpoint once the image is done.
func NewRequest(invocation *entities.CommandInvocation, checkpoint string, restoreSettings bool) *entities.TextToImageRequest {
	request := &entities.TextToImageRequest{
		Prompt:                       invocation.Prompt,
		Seed:                         invocation.Seed,
		Tiling:                       false,
		CFGScale:                     DefaultCFGScale,
		Steps:                        DefaultSteps,
		SamplerName:                  DefaultSampler,
		NegativePrompt:               invocation.NegativePrompt,
		OverrideSettingsRestoreAfter: restoreSettings,
	}
	if checkpoint != "" {
		request.OverrideSettings = &entities.Config{SDModelCheckpoint: &checkpoint}
	}
	return request
}
