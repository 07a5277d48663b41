package entities

// TextToImageRequest is the body of POST /sdapi/v1/txt2img.
// Tiling, NegativePrompt and OverrideSettingsRestoreAfter are always sent, even when zero.
type TextToImageRequest struct {
	Prompt                       string  `json:"prompt"`
	Seed                         int64   `json:"seed"`
	Tiling                       bool    `json:"tiling"`
	CFGScale                     float64 `json:"cfg_scale"`
	Steps                        int     `json:"steps"`
	SamplerName                  string  `json:"sampler_name"`
	NegativePrompt               string  `json:"negative_prompt"`
	OverrideSettings             *Config `json:"override_settings,omitempty"`
	OverrideSettingsRestoreAfter bool    `json:"override_settings_restore_after"`
}

type TextToImageResponse struct {
	Images     []string       `json:"images"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Info       string         `json:"info,omitempty"`
}
