package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/prgraph/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PRGRAPH_"

// FileNames are the config file names searched for, in order.
var FileNames = []string{"prgraph.yaml", "prgraph.yml", "prgraph.toml"}

// Options controls where Load reads from.
type Options struct {
	// File is an explicit config file. Empty searches FileNames in the
	// working directory, then in the user config directory.
	File string

	// Flags holds command-line flags; only flags that were set are applied.
	Flags *pflag.FlagSet

	// FlagKeys maps flag names to config keys. Flags absent from the map
	// are ignored.
	FlagKeys map[string]string

	// Environ supplies the environment. Nil means os.Environ.
	Environ func() []string
}

// Loaded is a validated configuration together with the file it came from.
type Loaded struct {
	*Config
	File string // Config file used, empty if none
}

// Load merges defaults, config file, environment and flags and validates the
// result. Invalid values are reported as INVALID_CONFIG.
func Load(opts Options) (*Loaded, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := Defaults()
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	path, err := findFile(opts.File)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
		}
	}

	// 3. Environment: only keys that exist in the defaults are recognized,
	// so PRGRAPH_CACHE_REDIS_URL maps to cache.redis_url, not cache.redis.url.
	envKeys := make(map[string]string, len(defaults))
	for key := range defaults {
		envKeys[EnvPrefix+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[s]
	})
	if opts.Environ != nil {
		if err := loadEnviron(k, opts.Environ(), envKeys); err != nil {
			return nil, err
		}
	} else if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// 4. Flags
	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := opts.FlagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &Loaded{Config: &cfg, File: path}, nil
}

// loadEnviron applies an explicit environment, for tests and embedding.
func loadEnviron(k *koanf.Koanf, environ []string, envKeys map[string]string) error {
	values := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key, ok := envKeys[name]; ok {
			values[key] = value
		}
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

func findFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", explicit)
		}
		return explicit, nil
	}

	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "prgraph"))
	}
	for _, dir := range dirs {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", nil
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML()
	}
	return yaml.Parser()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("column", func(fl validator.FieldLevel) bool {
		return errors.ValidateColumnName(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("sheetname", func(fl validator.FieldLevel) bool {
		return errors.ValidateSheetName(fl.Field().String()) == nil
	})
	return v
}

// Validate checks cfg and reports every violation in one INVALID_CONFIG error.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate configuration")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "required", "required_if":
		return fmt.Sprintf("%s is required", key)
	case "nefield":
		return fmt.Sprintf("%s must differ from columns.id_b", key)
	case "column":
		return fmt.Sprintf("%s: %q is not a usable column name", key, fe.Value())
	case "sheetname":
		return fmt.Sprintf("%s: %q is not a valid sheet name", key, fe.Value())
	default:
		return fmt.Sprintf("%s fails %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value())
	}
}
