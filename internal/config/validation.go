package config

import (
	"fmt"
	"math"
	"strings"

	"ChaosImg/pkg/cipher"
)

// maxCatCoefficient keeps a*b+1 and the point products inside int range on
// any grid that fits in memory.
const maxCatCoefficient = 1 << 16

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateCipher(&c.Cipher)...)
	errs = append(errs, validateAnalysis(&c.Analysis)...)
	errs = append(errs, validateOutput(&c.Output)...)
	errs = append(errs, validateLogging(&c.Logging)...)
	errs = append(errs, validateHistory(&c.History)...)
	errs = append(errs, validateWatch(&c.Watch)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateCipher(cc *CipherConfig) ValidationErrors {
	var errs ValidationErrors

	switch cc.Scheme {
	case cipher.SchemeFull, cipher.SchemeConfusion, cipher.SchemeDiffusion:
	default:
		errs = append(errs, ValidationError{
			Field: "cipher.scheme",
			Message: fmt.Sprintf("unknown scheme: %q (valid: %s, %s, %s)",
				cc.Scheme, cipher.SchemeFull, cipher.SchemeConfusion, cipher.SchemeDiffusion),
		})
	}

	for field, v := range map[string]int{"cipher.cat_a": cc.CatA, "cipher.cat_b": cc.CatB} {
		if v < -maxCatCoefficient || v > maxCatCoefficient {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be within ±%d, got %d", maxCatCoefficient, v),
			})
		}
	}

	for field, v := range map[string]float64{"cipher.duffing_a": cc.DuffingA, "cipher.duffing_b": cc.DuffingB} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, ValidationError{Field: field, Message: "must be a finite number"})
		}
	}

	if cc.WarmUp < 0 {
		errs = append(errs, ValidationError{
			Field:   "cipher.warmup",
			Message: fmt.Sprintf("must not be negative, got %d", cc.WarmUp),
		})
	}

	return errs
}

func validateAnalysis(a *AnalysisConfig) ValidationErrors {
	var errs ValidationErrors
	if a.Samples < 0 {
		errs = append(errs, ValidationError{
			Field:   "analysis.samples",
			Message: fmt.Sprintf("must not be negative, got %d", a.Samples),
		})
	}
	return errs
}

func validateOutput(o *OutputConfig) ValidationErrors {
	var errs ValidationErrors

	if o.Dir == "" {
		errs = append(errs, ValidationError{Field: "output.dir", Message: "output directory is required"})
	}
	for field, prefix := range map[string]string{
		"output.encrypt_prefix": o.EncryptPrefix,
		"output.decrypt_prefix": o.DecryptPrefix,
	} {
		if strings.ContainsAny(prefix, `/\`) {
			errs = append(errs, ValidationError{Field: field, Message: "must not contain path separators"})
		}
	}
	if o.EncryptPrefix == o.DecryptPrefix {
		errs = append(errs, ValidationError{
			Field:   "output.decrypt_prefix",
			Message: "must differ from encrypt_prefix",
		})
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
		// Valid formats
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file",
				Message: "file path is required when output is 'file'",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %q (valid: stdout, stderr, file)", l.Output),
		})
	}

	return errs
}

func validateHistory(h *HistoryConfig) ValidationErrors {
	var errs ValidationErrors
	if h.Enabled && h.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "history.path",
			Message: "path is required when history is enabled",
		})
	}
	return errs
}

func validateWatch(w *WatchConfig) ValidationErrors {
	var errs ValidationErrors
	if w.DebounceMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: fmt.Sprintf("must not be negative, got %d", w.DebounceMs),
		})
	}
	return errs
}
