package waifu

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1_700_000_000, 0)

func fixedClock() time.Time { return fixedNow }

func text(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func integer(name string, value any) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: value}
}

func TestParseDefaults(t *testing.T) {
	invocation, err := Parser{Now: fixedClock}.Parse([]*discordgo.ApplicationCommandInteractionDataOption{
		text(promptOption, "a cat"),
	})
	require.NoError(t, err)
	assert.Equal(t, "a cat", invocation.Prompt)
	assert.Equal(t, "", invocation.NegativePrompt)
	assert.Equal(t, fixedNow.Unix(), invocation.Seed)
}

func TestParseWallClockSeed(t *testing.T) {
	before := time.Now().Unix()
	invocation, err := Parser{}.Parse([]*discordgo.ApplicationCommandInteractionDataOption{text(promptOption, "a cat")})
	after := time.Now().Unix()

	require.NoError(t, err)
	assert.GreaterOrEqual(t, invocation.Seed, before)
	assert.LessOrEqual(t, invocation.Seed, after)
}

func TestParseClockBeforeEpoch(t *testing.T) {
	invocation, err := Parser{Now: func() time.Time { return time.Unix(-5, 0) }}.Parse(
		[]*discordgo.ApplicationCommandInteractionDataOption{text(promptOption, "a cat")},
	)
	require.NoError(t, err)
	assert.Zero(t, invocation.Seed)
}

func TestParseAllOptions(t *testing.T) {
	for _, seed := range []any{float64(42), int64(42), 42, json.Number("42")} {
		invocation, err := Parser{Now: fixedClock}.Parse([]*discordgo.ApplicationCommandInteractionDataOption{
			integer(seedOption, seed),
			text(negativeOption, "lowres"),
			text(promptOption, "a cat"),
			text("unknown", "ignored"),
		})
		require.NoError(t, err)
		assert.Equal(t, "a cat", invocation.Prompt)
		assert.Equal(t, "lowres", invocation.NegativePrompt)
		assert.Equal(t, int64(42), invocation.Seed)
	}
}

func TestParseLargestSeed(t *testing.T) {
	invocation, err := Parser{Now: fixedClock}.Parse([]*discordgo.ApplicationCommandInteractionDataOption{
		text(promptOption, "a cat"),
		integer(seedOption, float64(1<<53-1)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1<<53-1), invocation.Seed)
}

func TestParseNegativeSeed(t *testing.T) {
	invocation, err := Parser{Now: fixedClock}.Parse([]*discordgo.ApplicationCommandInteractionDataOption{
		text(promptOption, "a cat"),
		integer(seedOption, float64(-1)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), invocation.Seed)
}

func TestParseMissingPrompt(t *testing.T) {
	tests := map[string][]*discordgo.ApplicationCommandInteractionDataOption{
		"no options":     nil,
		"only seed":      {integer(seedOption, float64(1))},
		"empty prompt":   {text(promptOption, "")},
		"integer prompt": {integer(promptOption, float64(3))},
		"mistyped value": {{Name: promptOption, Type: discordgo.ApplicationCommandOptionString, Value: 3.0}},
	}
	for name, options := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parser{Now: fixedClock}.Parse(options)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingPrompt)
			assert.Equal(t, "Prompt was not provided as text", err.Error())
		})
	}
}

func TestParseInvalidOptionType(t *testing.T) {
	tests := []struct {
		name    string
		option  *discordgo.ApplicationCommandInteractionDataOption
		message string
	}{
		{"negative prompt as integer", integer(negativeOption, float64(1)), "Option `negative_prompt` must be text, got an integer"},
		{"seed as text", text(seedOption, "42"), "Option `seed` must be an integer, got text"},
		{"fractional seed", integer(seedOption, 4.2), "Option `seed` must be an integer, got an unsupported value"},
		{"seed beyond int64", integer(seedOption, 1e19), "Option `seed` must be an integer, got an unsupported value"},
		{"infinite seed", integer(seedOption, math.Inf(-1)), "Option `seed` must be an integer, got an unsupported value"},
		{"seed as boolean", &discordgo.ApplicationCommandInteractionDataOption{Name: seedOption, Type: discordgo.ApplicationCommandOptionBoolean, Value: true}, "Option `seed` must be an integer, got a boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parser{Now: fixedClock}.Parse([]*discordgo.ApplicationCommandInteractionDataOption{
				text(promptOption, "a cat"),
				tt.option,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, &OptionError{Kind: InvalidOptionType})
			assert.NotErrorIs(t, err, ErrMissingPrompt)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
