package waifu

import "github.com/bwmarrin/discordgo"

const WaifuCommand = "waifu"

const (
	promptOption   = "prompt"
	negativeOption = "negative_prompt"
	seedOption     = "seed"
)

func (w *Waifu) commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        WaifuCommand,
			Description: "txt2img using " + w.modelName(),
			Type:        discordgo.ChatApplicationCommand,
			Options: []*discordgo.ApplicationCommandOption{
				commandOptions[promptOption],
				commandOptions[negativeOption],
				commandOptions[seedOption],
			},
		},
	}
}

var commandOptions = map[string]*discordgo.ApplicationCommandOption{
	promptOption: {
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        promptOption,
		Description: "Image description",
		Required:    true,
	},
	negativeOption: {
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        negativeOption,
		Description: "Negative prompt",
		Required:    false,
	},
	seedOption: {
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        seedOption,
		Description: "Seed value",
		Required:    false,
	},
}
