package main

import "github.com/spf13/viper"

func setDefaults() {
	viper.SetDefault("telegram.base_url", "https://api.telegram.org")
	viper.SetDefault("telegram.poll_timeout", "30s")
	viper.SetDefault("telegram.max_concurrency", 3)

	viper.SetDefault("openai.base_url", "https://api.openai.com")
	viper.SetDefault("openai.request_timeout", "90s")
	viper.SetDefault("openai.transcription_model", "whisper-1")

	viper.SetDefault("model", "gpt-3.5-turbo")
	viper.SetDefault("llm.temperature", 0.8)
	viper.SetDefault("llm.max_tokens", 150)
	viper.SetDefault("llm.task_timeout", "2m")

	viper.SetDefault("chat.system_prompt", "The assistant is helpful, creative, smart, very friendly and accurate.")
	viper.SetDefault("chat.history_max_turns", 40)

	viper.SetDefault("db.driver", "sqlite")
	viper.SetDefault("db.dsn", "")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
