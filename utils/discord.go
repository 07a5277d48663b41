package utils

import (
	"errors"
	"log"
	"reflect"

	"github.com/bwmarrin/discordgo"
)

func GetOpts(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := data.Options
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		if opt == nil {
			continue
		}
		optionMap[opt.Name] = opt
	}
	return optionMap
}

func GetUsername(entities ...any) string {
	if user := GetUser(entities...); user != nil {
		return user.Username
	}
	return "unknown"
}

func GetUser(entities ...any) *discordgo.User {
	for _, entity := range entities {
		v := reflect.ValueOf(entity)
		if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
			continue
		}
		switch e := entity.(type) {
		case *discordgo.User:
			return e
		case *discordgo.Member:
			return GetUser(e.User)
		case *discordgo.Message:
			return GetUser(e.Author, e.Member)
		case *discordgo.Interaction:
			return GetUser(e.Member, e.User)
		case *discordgo.InteractionCreate:
			return GetUser(e.Interaction)
		case *discordgo.MessageInteraction:
			return GetUser(e.User, e.Member)
		case *discordgo.MessageInteractionMetadata:
			return GetUser(e.User)
		case *discordgo.MessageReactionAdd:
			if e.MessageReaction != nil && e.UserID != "" {
				return &discordgo.User{ID: e.UserID}
			}
			return GetUser(e.Member)
		default:
			continue
		}
	}
	return nil
}

// GetInvoker returns the user that ran the command a bot message answers, if the message records one.
func GetInvoker(message *discordgo.Message) *discordgo.User {
	if message == nil {
		return nil
	}
	return GetUser(message.InteractionMetadata, message.Interaction)
}

type MessageGetter interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// GetMessage looks the message up in the session state first and falls back to the REST API.
func GetMessage(s MessageGetter, channelID, messageID string) (*discordgo.Message, error) {
	if s == nil {
		return nil, errors.New("session is nil")
	}
	session, _ := s.(*discordgo.Session)
	if session != nil && session.State != nil {
		message, err := session.State.Message(channelID, messageID)
		if err == nil {
			return message, nil
		}
		if !errors.Is(err, discordgo.ErrStateNotFound) {
			return nil, err
		}
	}

	message, err := s.ChannelMessage(channelID, messageID)
	if err != nil {
		return nil, err
	}
	if session != nil && session.State != nil {
		if err := session.State.MessageAdd(message); err != nil && !errors.Is(err, discordgo.ErrStateNotFound) {
			log.Printf("WARNING: could not cache message %v: %v", messageID, err)
		}
	}
	return message, nil
}
