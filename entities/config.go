package entities

// Config is the subset of /sdapi/v1/options the bot overrides per request.
type Config struct {
	SDModelCheckpoint *string `json:"sd_model_checkpoint,omitempty"`
}
