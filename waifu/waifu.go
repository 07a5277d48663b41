package waifu

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"waifu_bot/api/stable_diffusion_api"
	"waifu_bot/discord_bot/handlers"
	"waifu_bot/entities"
	"waifu_bot/utils"
)

type Config struct {
	StableDiffusionAPI stable_diffusion_api.StableDiffusionAPI
	// Checkpoint is sent as override_settings.sd_model_checkpoint.
	Checkpoint      string
	RestoreSettings bool
	Codec           utils.ImageCodec
	// Now defaults to time.Now and seeds invocations without a seed option.
	Now func() time.Time
}

// Waifu serves the /waifu command. It keeps no state between invocations.
type Waifu struct {
	api             stable_diffusion_api.StableDiffusionAPI
	checkpoint      string
	restoreSettings bool
	codec           utils.ImageCodec
	parser          Parser
}

func New(cfg Config) (*Waifu, error) {
	if cfg.StableDiffusionAPI == nil {
		return nil, errors.New("missing stable diffusion api")
	}
	if cfg.Codec.Target != utils.Native && !cfg.Codec.Target.Writable() {
		return nil, fmt.Errorf("cannot transcode to %q", cfg.Codec.Target)
	}

	return &Waifu{
		api:             cfg.StableDiffusionAPI,
		checkpoint:      cfg.Checkpoint,
		restoreSettings: cfg.RestoreSettings,
		codec:           cfg.Codec,
		parser:          Parser{Now: cfg.Now},
	}, nil
}

func (w *Waifu) Commands() []*discordgo.ApplicationCommand { return w.commands() }

func (w *Waifu) Handlers() handlers.CommandHandlers { return w.handlers() }

func (w *Waifu) modelName() string {
	if w.checkpoint == "" {
		return "the current model"
	}
	name, _, _ := strings.Cut(w.checkpoint, " [")
	return name
}

// Outcome is either Success or Failure.
type Outcome interface {
	outcome()
}

type Success struct {
	Image  []byte
	Format utils.Format
	Seed   int64
}

type Failure struct {
	Err error
}

func (Success) outcome() {}
func (Failure) outcome() {}

// Generate runs one invocation against the web UI and decodes the first image.
func (w *Waifu) Generate(ctx context.Context, invocation *entities.CommandInvocation) Outcome {
	request := NewRequest(invocation, w.checkpoint, w.restoreSettings)

	start := time.Now()
	response, err := w.api.TextToImage(ctx, request)
	if err != nil {
		return Failure{Err: err}
	}
	if len(response.Images) == 0 {
		return Failure{Err: stable_diffusion_api.ErrNoImageProduced}
	}

	image, err := w.codec.Decode(response.Images[0])
	if err != nil {
		return Failure{Err: err}
	}

	log.Printf("Generated %s %s image in %s (%s)",
		humanize.Bytes(uint64(len(image))),
		w.codec.Format().Extension(),
		time.Since(start).Round(time.Millisecond),
		invocation,
	)

	return Success{Image: image, Format: w.codec.Format(), Seed: invocation.Seed}
}
