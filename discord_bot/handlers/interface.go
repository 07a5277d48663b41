package handlers

import "github.com/bwmarrin/discordgo"

type Handler func(s *discordgo.Session, i *discordgo.InteractionCreate) error

type CommandHandlers map[discordgo.InteractionType]map[string]Handler

// Command is a set of slash commands and the handlers that serve them.
type Command interface {
	Commands() []*discordgo.ApplicationCommand
	Handlers() CommandHandlers
}
