package discord_bot

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/sahilm/fuzzy"

	"waifu_bot/discord_bot/handlers"
)

const devPrefix = "dev_"

type botImpl struct {
	developmentMode    bool
	botSession         *discordgo.Session
	guildID            string
	commands           []handlers.Command
	handlers           handlers.CommandHandlers
	registeredCommands []*discordgo.ApplicationCommand
	removeCommands     bool
	reactionGuard      *ReactionGuard
}

type Config struct {
	DevelopmentMode bool
	BotToken        string
	// GuildID registers commands on a single guild. Commands are global when empty.
	GuildID        string
	RemoveCommands bool
	Commands       []handlers.Command
}

func New(cfg Config) (Bot, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("missing bot token")
	}

	if len(cfg.Commands) == 0 {
		return nil, errors.New("missing commands")
	}

	handlers.Token = &cfg.BotToken

	botSession, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	botSession.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessageReactions

	bot := &botImpl{
		developmentMode:    cfg.DevelopmentMode,
		botSession:         botSession,
		guildID:            cfg.GuildID,
		commands:           cfg.Commands,
		handlers:           mergeHandlers(cfg.Commands),
		registeredCommands: make([]*discordgo.ApplicationCommand, 0),
		removeCommands:     cfg.RemoveCommands,
		reactionGuard:      NewReactionGuard(botSession),
	}

	botSession.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	botSession.AddHandler(bot.handleInteraction)

	err = botSession.Open()
	if err != nil {
		return nil, err
	}

	if err := bot.reactionGuard.Start(); err != nil {
		return nil, err
	}

	if err := bot.registerCommands(); err != nil {
		return nil, err
	}

	return bot, nil
}

func mergeHandlers(commands []handlers.Command) handlers.CommandHandlers {
	merged := make(handlers.CommandHandlers)
	for _, command := range commands {
		for interactionType, byName := range command.Handlers() {
			if merged[interactionType] == nil {
				merged[interactionType] = make(map[string]handlers.Handler)
			}
			for name, handler := range byName {
				merged[interactionType][name] = handler
			}
		}
	}
	return merged
}

func (b *botImpl) commandName(name string) string {
	if b.developmentMode {
		return devPrefix + name
	}
	return name
}

func (b *botImpl) registerCommands() error {
	for _, command := range b.commands {
		for _, c := range command.Commands() {
			c := *c
			c.Name = b.commandName(c.Name)
			log.Printf("Adding command '%s'...", c.Name)

			registered, err := b.botSession.ApplicationCommandCreate(b.botSession.State.User.ID, b.guildID, &c)
			if err != nil {
				return fmt.Errorf("cannot create '%v' command: %w", c.Name, err)
			}
			b.registeredCommands = append(b.registeredCommands, registered)
		}
	}
	return nil
}

func (b *botImpl) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: recovered from panic while handling interaction %v: %v", i.ID, r)
		}
	}()

	var name string
	switch i.Type {
	case discordgo.InteractionApplicationCommand, discordgo.InteractionApplicationCommandAutocomplete:
		name = i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		name = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		name = i.ModalSubmitData().CustomID
	default:
		log.Printf("Unknown interaction type '%v'", i.Type)
		return
	}
	if b.developmentMode {
		name = strings.TrimPrefix(name, devPrefix)
	}

	handler, ok := b.handlers[i.Type][name]
	if !ok {
		log.Printf("Unknown %v '%v'", i.Type, name)
		if i.Type == discordgo.InteractionApplicationCommand {
			if err := handlers.NotImplemented(s, i, b.suggest(name)); err != nil {
				log.Printf("Cannot respond to unknown command '%v': %v", name, err)
			}
		}
		return
	}

	if err := handler(s, i); err != nil {
		log.Printf("Cannot respond to %v '%v': %v", i.Type, name, err)
	}
}

// suggest returns a "did you mean" hint for the closest registered command.
func (b *botImpl) suggest(name string) string {
	var names []string
	for commandName := range b.handlers[discordgo.InteractionApplicationCommand] {
		names = append(names, commandName)
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf("Did you mean `/%s`?", b.commandName(matches[0].Str))
}

func (b *botImpl) Start() {
	log.Println("Press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	err := b.teardown()
	if err != nil {
		log.Printf("Error tearing down bot: %v", err)
	}
}

func (b *botImpl) teardown() error {
	if err := b.reactionGuard.Stop(); err != nil {
		log.Printf("Error stopping reaction guard: %v", err)
	}

	// Delete all commands added by the bot
	if b.removeCommands {
		log.Printf("Removing all commands added by bot...")

		for _, v := range b.registeredCommands {
			log.Printf("Removing command '%v'...", v.Name)

			err := b.botSession.ApplicationCommandDelete(b.botSession.State.User.ID, b.guildID, v.ID)
			if err != nil {
				log.Printf("Cannot delete '%v' command: %v", v.Name, err)
			}
		}
	}

	return b.botSession.Close()
}
