package waifu

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/bwmarrin/discordgo"

	"waifu_bot/entities"
	"waifu_bot/utils"
)

// OptionValue is one of TextValue, IntegerValue, NumberValue or BooleanValue.
type OptionValue interface {
	optionType() string
}

type (
	TextValue    string
	IntegerValue int64
	NumberValue  float64
	BooleanValue bool
)

func (TextValue) optionType() string    { return "text" }
func (IntegerValue) optionType() string { return "an integer" }
func (NumberValue) optionType() string  { return "a number" }
func (BooleanValue) optionType() string { return "a boolean" }

// maxSafeInteger bounds integer options, which Discord sends as JSON numbers.
const maxSafeInteger = 1<<53 - 1

// valueOf lifts the loosely typed gateway value into an OptionValue.
// Integers arrive as float64, so an integer option holding a fraction is rejected.
// A value that does not match its declared type yields nil.
func valueOf(option *discordgo.ApplicationCommandInteractionDataOption) OptionValue {
	switch option.Type {
	case discordgo.ApplicationCommandOptionString:
		if v, ok := option.Value.(string); ok {
			return TextValue(v)
		}
	case discordgo.ApplicationCommandOptionInteger:
		switch v := option.Value.(type) {
		case float64:
			if v == math.Trunc(v) && math.Abs(v) <= maxSafeInteger {
				return IntegerValue(int64(v))
			}
		case int64:
			return IntegerValue(v)
		case int:
			return IntegerValue(int64(v))
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return IntegerValue(n)
			}
		}
	case discordgo.ApplicationCommandOptionNumber:
		if v, ok := option.Value.(float64); ok {
			return NumberValue(v)
		}
	case discordgo.ApplicationCommandOptionBoolean:
		if v, ok := option.Value.(bool); ok {
			return BooleanValue(v)
		}
	}
	return nil
}

// Parser turns the options of a /waifu interaction into a CommandInvocation.
type Parser struct {
	// Now is the clock used for the default seed.
	Now func() time.Time
}

func (p Parser) defaultSeed() int64 {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	seconds := now().Unix()
	if seconds < 0 {
		return 0
	}
	return seconds
}

func (p Parser) Parse(options []*discordgo.ApplicationCommandInteractionDataOption) (*entities.CommandInvocation, error) {
	optionMap := utils.GetOpts(discordgo.ApplicationCommandInteractionData{Options: options})

	invocation := &entities.CommandInvocation{}

	prompt, ok := optionMap[promptOption]
	if !ok {
		return nil, ErrMissingPrompt
	}
	value := valueOf(prompt)
	switch v := value.(type) {
	case TextValue:
		invocation.Prompt = string(v)
	default:
		return nil, &OptionError{Kind: MissingOrInvalidPrompt, Option: promptOption, Got: describe(v)}
	}
	if invocation.Prompt == "" {
		return nil, ErrMissingPrompt
	}

	if option, ok := optionMap[negativeOption]; ok {
		value := valueOf(option)
		switch v := value.(type) {
		case TextValue:
			invocation.NegativePrompt = string(v)
		default:
			return nil, invalidOptionType(negativeOption, TextValue("").optionType(), v)
		}
	}

	if option, ok := optionMap[seedOption]; ok {
		value := valueOf(option)
		switch v := value.(type) {
		case IntegerValue:
			invocation.Seed = int64(v)
		default:
			return nil, invalidOptionType(seedOption, IntegerValue(0).optionType(), v)
		}
	} else {
		invocation.Seed = p.defaultSeed()
	}

	return invocation, nil
}

func describe(v OptionValue) string {
	if v == nil {
		return "an unsupported value"
	}
	return v.optionType()
}

func invalidOptionType(option, want string, got OptionValue) error {
	return &OptionError{Kind: InvalidOptionType, Option: option, Want: want, Got: describe(got)}
}

type OptionErrorKind int

const (
	MissingOrInvalidPrompt OptionErrorKind = iota
	InvalidOptionType
)

type OptionError struct {
	Kind   OptionErrorKind
	Option string
	Want   string
	Got    string
}

var ErrMissingPrompt = &OptionError{Kind: MissingOrInvalidPrompt, Option: promptOption}

func (e *OptionError) Error() string {
	switch e.Kind {
	case MissingOrInvalidPrompt:
		return "Prompt was not provided as text"
	default:
		return fmt.Sprintf("Option `%s` must be %s, got %s", e.Option, e.Want, e.Got)
	}
}

func (e *OptionError) Is(target error) bool {
	t, ok := target.(*OptionError)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return t.Option == "" || t.Option == e.Option
}
