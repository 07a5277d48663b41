package waifu

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"waifu_bot/discord_bot/handlers"
)

func (w *Waifu) handlers() handlers.CommandHandlers {
	return handlers.CommandHandlers{
		discordgo.InteractionApplicationCommand: {
			WaifuCommand: w.processWaifuCommand,
		},
	}
}

func (w *Waifu) processWaifuCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return w.run(context.Background(), s, i)
}

// run acknowledges first so the interaction survives a slow backend, then sends exactly one followup.
func (w *Waifu) run(ctx context.Context, s handlers.Responder, i *discordgo.InteractionCreate) error {
	if err := handlers.ThinkResponse(s, i); err != nil {
		return err
	}

	invocation, err := w.parser.Parse(i.ApplicationCommandData().Options)
	if err != nil {
		return respond(s, i.Interaction, Failure{Err: err})
	}

	return respond(s, i.Interaction, w.Generate(ctx, invocation))
}

func respond(s handlers.Responder, i *discordgo.Interaction, outcome Outcome) error {
	switch outcome := outcome.(type) {
	case Success:
		_, err := handlers.Followup(s, i,
			fmt.Sprintf("`seed:%d`", outcome.Seed),
			&discordgo.File{
				Name:        "out." + outcome.Format.Extension(),
				ContentType: outcome.Format.ContentType(),
				Reader:      bytes.NewReader(outcome.Image),
			},
		)
		return err
	case Failure:
		return handlers.ErrorFollowup(s, i, outcome.Err)
	default:
		return handlers.ErrorFollowup(s, i, fmt.Errorf("unknown outcome %T", outcome))
	}
}
