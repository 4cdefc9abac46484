package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/apexai/draftkit/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings like "90s" and parsed with time.ParseDuration.
type JsonConfig struct {
	StoragePath    *string `json:"storage_path"`
	HistoryPath    *string `json:"history_path"`
	OpenAIBaseURL  *string `json:"openai_base_url"`
	GeminiBaseURL  *string `json:"gemini_base_url"`
	RequestTimeout *string `json:"request_timeout"`
	PassphraseFile *string `json:"passphrase_file"`
	LogLevel       *string `json:"log_level"`
	HistoryKeep    *int    `json:"history_keep"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. Absent file path means no JSON is loaded. Only fields present
// in the file override the current values. Panics on read or parse errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StoragePath != nil {
		cfg.StoragePath = *jc.StoragePath
	}
	if jc.HistoryPath != nil {
		cfg.HistoryPath = *jc.HistoryPath
	}
	if jc.OpenAIBaseURL != nil {
		cfg.OpenAIBaseURL = *jc.OpenAIBaseURL
	}
	if jc.GeminiBaseURL != nil {
		cfg.GeminiBaseURL = *jc.GeminiBaseURL
	}
	if jc.RequestTimeout != nil {
		d, err := time.ParseDuration(*jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if jc.PassphraseFile != nil {
		cfg.PassphraseFile = *jc.PassphraseFile
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.HistoryKeep != nil {
		cfg.HistoryKeep = *jc.HistoryKeep
	}
}
