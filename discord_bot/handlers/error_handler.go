package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"waifu_bot/utils"
)

var Token *string

const errorPrefix = "Error: "

// ErrorFollowup sends "Error: <message>" as the followup of a deferred interaction.
// The message is err.Error(); causes only go to the log.
func ErrorFollowup(bot Responder, i *discordgo.Interaction, errorContent ...any) error {
	errorString := formatError(errorContent...)

	logError(fmt.Sprintf("%v%v", errorString, causes(errorContent...)), i)

	_, err := Followup(bot, i, errorPrefix+errorString)
	return err
}

func formatError(errorContent ...any) string {
	if len(errorContent) < 1 {
		errorContent = []any{"An unknown error has occurred"}
	}

	var errs []string
	for _, content := range errorContent {
		switch content := content.(type) {
		case string:
			errs = append(errs, content)
		case error:
			errs = append(errs, content.Error())
		default:
			errs = append(errs, fmt.Sprintf("An unknown error has occurred\nReceived: %v", content))
		}
	}

	return strings.Join(errs, "\n")
}

// causes renders the wrapped errors that Error() hides from the user.
func causes(errorContent ...any) string {
	var b strings.Builder
	for _, content := range errorContent {
		err, ok := content.(error)
		if !ok {
			continue
		}
		if cause := errors.Unwrap(err); cause != nil {
			b.WriteString(": ")
			b.WriteString(cause.Error())
		}
	}
	return b.String()
}

func sanitizeToken(errorString *string) *string {
	if errorString == nil {
		return errorString
	}
	if Token == nil || *Token == "" {
		return errorString
	}
	if strings.Contains(*errorString, *Token) {
		log.Printf("WARNING: Bot token was found in a message. Replacing it with \"[TOKEN]\"")
		sanitizedString := strings.ReplaceAll(*errorString, *Token, "[TOKEN]")
		errorString = &sanitizedString
	}
	return errorString
}

func logError(errorString string, i *discordgo.Interaction) {
	log.Printf("ERROR: %v", *sanitizeToken(&errorString))
	if i == nil {
		return
	}
	if data, ok := i.Data.(discordgo.ApplicationCommandInteractionData); ok {
		log.Printf("Command: %v", data.Name)
	}
	log.Printf("User: %v", utils.GetUsername(i))
}
