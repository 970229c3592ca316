package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitecraft/config"
	"sitecraft/internal/ai"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sitecraft",
	Short: "Turn a description into a single-page website",
	Long: `Sitecraft generates a runnable single-page website from a natural-language
description, refines it through follow-up instructions, regenerates individual
images and exports the result as website.zip.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}

func newGenerator(cfg config.Config) *ai.Generator {
	return ai.NewGenerator(ai.Options{
		APIKey:              cfg.OpenAIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		ChatModel:           cfg.ChatModel,
		ImageModel:          cfg.ImageModel,
		ImageSize:           cfg.ImageSize,
		ImageResponseFormat: cfg.ImageResponseFormat,
		RequestsPerMinute:   cfg.GatewayRPM,
	})
}
