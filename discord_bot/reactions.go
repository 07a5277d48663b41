package discord_bot

import (
	"errors"
	"log"

	"github.com/bwmarrin/discordgo"

	"waifu_bot/utils"
)

type messageSession interface {
	utils.MessageGetter
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// ReactionGuard deletes a bot reply when the user who ran the command reacts to it.
type ReactionGuard struct {
	session       *discordgo.Session
	removeHandler func()
}

func NewReactionGuard(session *discordgo.Session) *ReactionGuard {
	return &ReactionGuard{session: session}
}

func (g *ReactionGuard) Start() error {
	if g.session == nil {
		return errors.New("discord session is nil")
	}
	if g.removeHandler != nil {
		return errors.New("reaction guard already started")
	}
	g.removeHandler = g.session.AddHandler(g.handleReactionAdd)
	return nil
}

func (g *ReactionGuard) Stop() error {
	if g.removeHandler == nil {
		return errors.New("reaction guard not started")
	}
	g.removeHandler()
	g.removeHandler = nil
	return nil
}

func (g *ReactionGuard) handleReactionAdd(s *discordgo.Session, e *discordgo.MessageReactionAdd) {
	if s.State == nil || s.State.User == nil {
		log.Printf("WARNING: bot user unknown, ignoring reaction on %v", e.MessageID)
		return
	}
	g.process(s, s.State.User.ID, e)
}

// process reports whether the reacted message was deleted.
func (g *ReactionGuard) process(s messageSession, botID string, e *discordgo.MessageReactionAdd) bool {
	if e == nil || e.MessageReaction == nil {
		return false
	}

	reactor := utils.GetUser(e)
	if reactor == nil || reactor.ID == "" {
		log.Printf("WARNING: could not resolve who reacted to message %v", e.MessageID)
		return false
	}

	message, err := utils.GetMessage(s, e.ChannelID, e.MessageID)
	if err != nil {
		log.Printf("ERROR: could not fetch reacted message %v: %v", e.MessageID, err)
		return false
	}

	if !CanDelete(message, botID, reactor.ID) {
		return false
	}

	if err := s.ChannelMessageDelete(e.ChannelID, e.MessageID); err != nil {
		log.Printf("ERROR: could not delete message %v: %v", e.MessageID, err)
		return false
	}
	log.Printf("Deleted message %v at the request of %v", e.MessageID, reactor.ID)
	return true
}

// CanDelete holds only for bot-authored messages whose recorded invoker is the reacting user.
func CanDelete(message *discordgo.Message, botID, reactorID string) bool {
	if message == nil || message.Author == nil || botID == "" {
		return false
	}
	if message.Author.ID != botID {
		return false
	}
	invoker := utils.GetInvoker(message)
	if invoker == nil || invoker.ID == "" {
		return false
	}
	return invoker.ID == reactorID
}
