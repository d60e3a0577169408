package config

import (
	"path/filepath"

	"ChaosImg/pkg/cipher"
	"ChaosImg/pkg/cipher/acm"
	"ChaosImg/pkg/cipher/duffing"
	"ChaosImg/pkg/stats"
)

// Default values
const (
	DefaultOutputDir     = "chaosimg_output"
	DefaultEncryptPrefix = "Encrypted_"
	DefaultDecryptPrefix = "Decrypted_"
	DefaultDebounceMs    = 500
)

// DefaultConfig returns a configuration with the published cipher constants.
func DefaultConfig() *Config {
	return &Config{
		Cipher: CipherConfig{
			Scheme:   cipher.SchemeFull,
			CatA:     acm.Default.A,
			CatB:     acm.Default.B,
			DuffingA: duffing.DefaultParams.A,
			DuffingB: duffing.DefaultParams.B,
			WarmUp:   duffing.DefaultParams.WarmUp,
		},
		Analysis: AnalysisConfig{
			Samples: stats.DefaultSampleCount,
		},
		Output: OutputConfig{
			Dir:           DefaultOutputDir,
			EncryptPrefix: DefaultEncryptPrefix,
			DecryptPrefix: DefaultDecryptPrefix,
			Resize:        true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(ChaosImgDir(), "history.db"),
		},
		Watch: WatchConfig{
			DebounceMs: DefaultDebounceMs,
		},
	}
}
