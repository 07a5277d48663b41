package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"waifu_bot/api/stable_diffusion_api"
	"waifu_bot/discord_bot"
	"waifu_bot/discord_bot/handlers"
	"waifu_bot/utils"
	"waifu_bot/waifu"
)

// Bot parameters
var (
	guildID            = flag.String("guild", "", "Guild ID. If not passed - bot registers commands globally")
	botToken           = flag.String("token", "", "Bot access token")
	apiHost            = flag.String("host", "", "Base URI of the Automatic1111 web UI")
	checkpoint         = flag.String("checkpoint", "", "Model checkpoint sent as sd_model_checkpoint")
	imageFormat        = flag.String("format", "", "Attachment format: png, jpeg, gif. Empty keeps the backend's format")
	sourceFormat       = flag.String("source", "", "Format the backend returns: png, jpeg, webp. Defaults to png")
	jpegQuality        = flag.Int("quality", 0, "JPEG quality when transcoding to jpeg")
	restoreSettings    = flag.Bool("restore", false, "Ask the backend to restore its settings after each generation")
	removeCommandsFlag = flag.Bool("remove", false, "Delete all commands when bot exits")
	devModeFlag        = flag.Bool("dev", false, "Start in development mode, using \"dev_\" prefixed commands instead")
	logFile            = flag.String("log", "", "Also write logs to this file, rotated by size")
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARNING: .env file not loaded: %v", err)
		return
	}
	log.Println(".env file loaded successfully")
}

func envString(value *string, key string) {
	if *value != "" {
		return
	}
	*value = os.Getenv(key)
}

func envBool(value *bool, key string) {
	if *value {
		return
	}
	if env := os.Getenv(key); env != "" {
		*value = env == "true"
	}
}

func envInt(value *int, key string) {
	if *value != 0 {
		return
	}
	if env := os.Getenv(key); env != "" {
		parsed, err := strconv.Atoi(env)
		if err != nil {
			log.Printf("WARNING: ignoring %v=%q: %v", key, env, err)
			return
		}
		*value = parsed
	}
}

func main() {
	flag.Parse()

	envString(botToken, "DISCORD_TOKEN")
	envString(apiHost, "SD_WEBUI_URI")
	envString(checkpoint, "SD_MODEL_CKPT")
	envString(guildID, "GUILD_ID")
	envString(imageFormat, "IMAGE_FORMAT")
	envString(sourceFormat, "SD_IMAGE_FORMAT")
	envInt(jpegQuality, "JPEG_QUALITY")
	envBool(restoreSettings, "SD_RESTORE_SETTINGS")
	envBool(removeCommandsFlag, "REMOVE_COMMANDS")
	envBool(devModeFlag, "DEV_MODE")
	envString(logFile, "LOG_FILE")

	if *logFile != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}))
	}

	if *botToken == "" {
		log.Fatalf("Bot token flag is required")
	}

	if *apiHost == "" {
		log.Fatalf("API host flag is required")
	}

	if *checkpoint == "" {
		log.Fatalf("Checkpoint flag is required")
	}

	target, err := utils.ParseFormat(*imageFormat)
	if err != nil {
		log.Fatalf("Invalid image format: %v", err)
	}

	source, err := utils.ParseFormat(*sourceFormat)
	if err != nil {
		log.Fatalf("Invalid source image format: %v", err)
	}

	if *devModeFlag {
		log.Printf("Starting in development mode.. all commands prefixed with \"dev_\"")
	}

	stableDiffusionAPI, err := stable_diffusion_api.New(stable_diffusion_api.Config{
		Host: *apiHost,
	})
	if err != nil {
		log.Fatalf("Failed to create Stable Diffusion API: %v", err)
	}

	aliveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	alive := stableDiffusionAPI.Alive(aliveCtx)
	cancel()
	if !alive {
		log.Printf("WARNING: Stable Diffusion API at %v is not responding", stableDiffusionAPI.Host())
	}

	waifuCommand, err := waifu.New(waifu.Config{
		StableDiffusionAPI: stableDiffusionAPI,
		Checkpoint:         *checkpoint,
		RestoreSettings:    *restoreSettings,
		Codec: utils.ImageCodec{
			Source:  source,
			Target:  target,
			Quality: *jpegQuality,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create waifu command: %v", err)
	}

	bot, err := discord_bot.New(discord_bot.Config{
		DevelopmentMode: *devModeFlag,
		BotToken:        *botToken,
		GuildID:         *guildID,
		RemoveCommands:  *removeCommandsFlag,
		Commands:        []handlers.Command{waifuCommand},
	})
	if err != nil {
		log.Fatalf("Error creating Discord bot: %v", err)
	}

	bot.Start()

	log.Println("Gracefully shutting down.")
}
