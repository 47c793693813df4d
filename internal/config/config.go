package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/belphemur/opening-hours/internal/logging"
	"github.com/belphemur/opening-hours/internal/openinghours"
)

// EnvPrefix is the prefix of environment overrides; "__" separates nested keys,
// e.g. OPENING_HOURS_SERVICE__LOG_LEVEL=debug
const EnvPrefix = "OPENING_HOURS_"

// Config holds the application configuration
type Config struct {
	Service ServiceConfig `koanf:"service"`
	Rules   []RuleConfig  `koanf:"rules"`
}

// ServiceConfig holds the service configuration
type ServiceConfig struct {
	LogLevel  string `koanf:"log_level"`
	StateFile string `koanf:"state_file"`
}

// RuleConfig is a named rule with its weekday selector, one range per entry
type RuleConfig struct {
	Name     string                      `koanf:"name"`
	Weekdays []openinghours.WeekDayRange `koanf:"weekdays"`
}

// Ranges returns pointers into the rule's weekday ranges
func (r *RuleConfig) Ranges() []*openinghours.WeekDayRange {
	ranges := make([]*openinghours.WeekDayRange, len(r.Weekdays))
	for i := range r.Weekdays {
		ranges[i] = &r.Weekdays[i]
	}
	return ranges
}

var defaults = map[string]any{
	"service.log_level":  "info",
	"service.state_file": "data/opening-hours.db",
}

// Load reads defaults, the TOML file at path and OPENING_HOURS_* environment
// variables, in that order of precedence
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default configuration: %w", err)
	}

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment configuration: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: decoderConfig(&cfg),
	}); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Relative state files live next to the config directory
	if !filepath.IsAbs(cfg.Service.StateFile) {
		configDir := filepath.Dir(path)
		cfg.Service.StateFile = filepath.Join(configDir, "..", cfg.Service.StateFile)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// transformEnv maps OPENING_HOURS_SERVICE__LOG_LEVEL to service.log_level
func transformEnv(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", "."), value
}

func decoderConfig(out *Config) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		// List entries go through WeekDayRange.UnmarshalText, a plain
		// string is read as a whole selector
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			selectorHook(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result:           out,
		WeaklyTypedInput: true,
	}
}

var weekDayRangesType = reflect.TypeOf([]openinghours.WeekDayRange{})

// selectorHook decodes `weekdays = "Mo-Fr,Sa[1,3]"` into a range slice
func selectorHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != weekDayRangesType {
			return data, nil
		}
		parsed, err := openinghours.ParseSelector(data.(string))
		if err != nil {
			return nil, err
		}
		ranges := make([]openinghours.WeekDayRange, len(parsed))
		for i, r := range parsed {
			ranges[i] = *r
		}
		return ranges, nil
	}
}

// validate reports every problem at once
func validate(cfg *Config) error {
	var result *multierror.Error

	if _, err := logging.ParseLevel(cfg.Service.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("invalid log level: %s", cfg.Service.LogLevel))
	}

	seen := make(map[string]bool)
	for i, rule := range cfg.Rules {
		if rule.Name == "" {
			result = multierror.Append(result, fmt.Errorf("rule %d: name is required", i))
		} else if seen[rule.Name] {
			result = multierror.Append(result, fmt.Errorf("rule %q: duplicate name", rule.Name))
		}
		seen[rule.Name] = true

		if len(rule.Weekdays) == 0 {
			result = multierror.Append(result, fmt.Errorf("rule %q: at least one weekday range is required", rule.Name))
		}
		for j, r := range rule.Weekdays {
			if err := r.Validate(); err != nil {
				result = multierror.Append(result, fmt.Errorf("rule %q: weekday %d: %w", rule.Name, j, err))
			}
		}
	}

	return result.ErrorOrNil()
}
