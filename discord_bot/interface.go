package discord_bot

type Bot interface {
	// Start blocks until the process is interrupted, then tears the bot down.
	Start()
}
