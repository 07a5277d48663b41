package discord_bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"waifu_bot/discord_bot/handlers"
)

type stubCommand struct {
	names []string
}

func (c stubCommand) Commands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, name := range c.names {
		commands = append(commands, &discordgo.ApplicationCommand{Name: name})
	}
	return commands
}

func (c stubCommand) Handlers() handlers.CommandHandlers {
	byName := make(map[string]handlers.Handler)
	for _, name := range c.names {
		byName[name] = func(*discordgo.Session, *discordgo.InteractionCreate) error { return nil }
	}
	return handlers.CommandHandlers{discordgo.InteractionApplicationCommand: byName}
}

func TestMergeHandlers(t *testing.T) {
	merged := mergeHandlers([]handlers.Command{
		stubCommand{names: []string{"waifu"}},
		stubCommand{names: []string{"ping"}},
	})

	assert.Len(t, merged[discordgo.InteractionApplicationCommand], 2)
	assert.Contains(t, merged[discordgo.InteractionApplicationCommand], "waifu")
	assert.Contains(t, merged[discordgo.InteractionApplicationCommand], "ping")
}

func TestSuggest(t *testing.T) {
	bot := &botImpl{handlers: mergeHandlers([]handlers.Command{stubCommand{names: []string{"waifu"}}})}

	assert.Equal(t, "Did you mean `/waifu`?", bot.suggest("wfu"))
	assert.Empty(t, bot.suggest("zzz"))

	bot.developmentMode = true
	assert.Equal(t, "Did you mean `/dev_waifu`?", bot.suggest("waif"))
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "waifu", (&botImpl{}).commandName("waifu"))
	assert.Equal(t, "dev_waifu", (&botImpl{developmentMode: true}).commandName("waifu"))
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{BotToken: "token"})
	assert.Error(t, err)
}
