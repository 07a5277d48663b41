package entities

import "fmt"

// CommandInvocation holds the validated options of a single /waifu call.
type CommandInvocation struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Seed           int64  `json:"seed"`
}

func (c *CommandInvocation) String() string {
	return fmt.Sprintf("prompt=%q negative_prompt=%q seed=%d", c.Prompt, c.NegativePrompt, c.Seed)
}
