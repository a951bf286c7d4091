// Package config loads megac settings from megac.toml, MEGAC_* environment
// variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// FileName is the config file name searched in . and $HOME.
const FileName = "megac.toml"

// EnvPrefix is the prefix of environment overrides, e.g. MEGAC_LOG_LEVEL.
const EnvPrefix = "MEGAC"

// StoreConfig configures artifact persistence.
type StoreConfig struct {
	// Path is the SQLite database. Empty disables persistence.
	Path string `mapstructure:"path" toml:"path"`
}

// CompileConfig configures the compilation pipeline.
type CompileConfig struct {
	Workers  int  `mapstructure:"workers" toml:"workers" validate:"gte=1,lte=1024"`
	FailFast bool `mapstructure:"fail_fast" toml:"fail_fast"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// Path receives the metrics of each pass. Empty disables export.
	Path string `mapstructure:"path" toml:"path"`
}

// PrinterConfig configures diagnostic output.
type PrinterConfig struct {
	ShowEliminated bool `mapstructure:"show_eliminated" toml:"show_eliminated"`
}

// Config holds all megac settings.
type Config struct {
	LogLevel string        `mapstructure:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	Format   string        `mapstructure:"format" toml:"format" validate:"oneof=text json"`
	Store    StoreConfig   `mapstructure:"store" toml:"store"`
	Compile  CompileConfig `mapstructure:"compile" toml:"compile"`
	Metrics  MetricsConfig `mapstructure:"metrics" toml:"metrics"`
	Printer  PrinterConfig `mapstructure:"printer" toml:"printer"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Format:   "text",
		Compile:  CompileConfig{Workers: 4, FailFast: true},
		Printer:  PrinterConfig{ShowEliminated: true},
	}
}

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("format", d.Format)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("compile.workers", d.Compile.Workers)
	v.SetDefault("compile.fail_fast", d.Compile.FailFast)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("printer.show_eliminated", d.Printer.ShowEliminated)
}

// Setup points v at the config file and environment. An empty cfgFile
// searches FileName in the working directory and the home directory.
func Setup(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the config file, if any, and returns the validated settings.
// A missing file is not an error; an explicitly named file that cannot be
// read is.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		msgs[i] = fmt.Sprintf("%s=%v fails %s", key, fe.Value(), ruleText(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// SlogLevel maps LogLevel to a slog level. Unknown levels map to Info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ErrConfigExists is returned by WriteDefault when the target file exists.
var ErrConfigExists = errors.New("config file already exists")

// WriteDefault writes the default configuration as TOML. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := toml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
