package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/m3rciful/gotto/core/cmd"
	"github.com/m3rciful/gotto/internal/bot"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: bot.Bootstrap,
	})
	if err != nil {
		log.Fatal(err)
	}
}
