package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Responder is the part of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ThinkResponse acknowledges the interaction with a "Bot is thinking..." message.
// Nothing else can be sent for the interaction if this fails.
func ThinkResponse(bot Responder, i *discordgo.InteractionCreate) error {
	err := bot.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("error acknowledging interaction: %w", err)
	}
	return nil
}

// Followup sends a followup message. Content is a string or a *discordgo.File.
func Followup(bot Responder, i *discordgo.Interaction, content ...any) (*discordgo.Message, error) {
	webhookParams := contentToWebhookParams(content...)
	webhookParams.Content = *sanitizeToken(&webhookParams.Content)

	msg, err := bot.FollowupMessageCreate(i, true, &webhookParams)
	if err != nil {
		return nil, fmt.Errorf("error sending followup: %w", err)
	}
	return msg, nil
}

// NotImplemented answers an unknown command.
func NotImplemented(bot Responder, i *discordgo.InteractionCreate, hint string) error {
	if err := ThinkResponse(bot, i); err != nil {
		return err
	}
	content := "Not implemented :("
	if hint != "" {
		content += "\n" + hint
	}
	_, err := Followup(bot, i.Interaction, content)
	return err
}

func contentToWebhookParams(content ...any) discordgo.WebhookParams {
	webhookParams := discordgo.WebhookParams{}
	for _, m := range content {
		switch c := m.(type) {
		case string:
			webhookParams.Content = c
		case *discordgo.File:
			webhookParams.Files = append(webhookParams.Files, c)
		default:
			log.Printf("WARNING: ignoring followup content of type %T", c)
		}
	}
	return webhookParams
}
