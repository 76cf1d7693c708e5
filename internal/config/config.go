// Package config loads kbuild settings from defaults, an optional config
// file, a .env file and KBUILD_* environment variables, in increasing order
// of precedence. Command line flags are applied on top by the CLI.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kalisko/kbuild/internal/errors"
	"github.com/kalisko/kbuild/internal/utils"
)

const (
	// EnvPrefix prefixes every environment variable kbuild reads
	EnvPrefix = "KBUILD"
	// FileName is the config file base name searched in the working directory
	FileName = "kbuild"
)

// Config holds the kbuild settings
type Config struct {
	// ModuleRoot contains one subdirectory per module
	ModuleRoot string `mapstructure:"module_root"`
	// SourceRoot is where interfaces are searched and compiled
	SourceRoot string `mapstructure:"source_root"`
	// KicDir holds the interface compiler sources and binary
	KicDir string `mapstructure:"kic_dir"`
	// KicBuildCommand builds the interface compiler inside KicDir
	KicBuildCommand []string `mapstructure:"kic_build_command"`
	// Verbosity is one of quiet, normal, verbose, debug
	Verbosity string `mapstructure:"verbosity"`
}

// Verbosity levels accepted in configuration
const (
	VerbosityQuiet   = "quiet"
	VerbosityNormal  = "normal"
	VerbosityVerbose = "verbose"
	VerbosityDebug   = "debug"
)

// DefaultConfig returns the settings used when nothing overrides them
func DefaultConfig() *Config {
	return &Config{
		ModuleRoot:      "src/modules",
		SourceRoot:      "src",
		KicDir:          "kic",
		KicBuildCommand: []string{"scons"},
		Verbosity:       VerbosityNormal,
	}
}

// Load reads configuration. When path is empty a kbuild.{yaml,toml,json}
// in the working directory is used if present.
func Load(path string) (*Config, string, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, "", errors.WrapConfigurationError(".env", "load", err)
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("module_root", defaults.ModuleRoot)
	v.SetDefault("source_root", defaults.SourceRoot)
	v.SetDefault("kic_dir", defaults.KicDir)
	v.SetDefault("kic_build_command", defaults.KicBuildCommand)
	v.SetDefault("verbosity", defaults.Verbosity)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	resolved := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !asConfigNotFound(err, &notFound) {
			return nil, "", errors.WrapConfigurationError(configName(path), "read", err)
		}
	} else {
		resolved = v.ConfigFileUsed()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", errors.WrapConfigurationError(configName(path), "decode", err)
	}

	// A space separated string from the environment becomes a command line
	if len(cfg.KicBuildCommand) == 1 {
		cfg.KicBuildCommand = strings.Fields(cfg.KicBuildCommand[0])
	}

	if err := cfg.Validate(); err != nil {
		return nil, resolved, err
	}
	return cfg, resolved, nil
}

func asConfigNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	nf, ok := err.(viper.ConfigFileNotFoundError)
	if ok {
		*target = nf
	}
	return ok
}

func configName(path string) string {
	if path == "" {
		return FileName
	}
	return path
}

// Validate checks that every setting is usable. All problems are reported together.
func (c *Config) Validate() error {
	var problems *errors.MultipleErrors

	paths := map[string]string{
		"module_root": c.ModuleRoot,
		"source_root": c.SourceRoot,
		"kic_dir":     c.KicDir,
	}
	for _, field := range []string{"module_root", "source_root", "kic_dir"} {
		if err := utils.NotEmpty(field)(paths[field]); err != nil {
			errors.AddToMultiple(&problems, errors.NewValidationError(field, paths[field], "cannot be empty"))
		}
	}

	if err := utils.SliceNotEmpty[string]("kic_build_command")(c.KicBuildCommand); err != nil {
		errors.AddToMultiple(&problems, errors.NewValidationError("kic_build_command", c.KicBuildCommand, "cannot be empty").
			WithSuggestion("Set kic_build_command, for example [\"scons\"]"))
	}

	levels := utils.IsOneOf("verbosity", VerbosityQuiet, VerbosityNormal, VerbosityVerbose, VerbosityDebug)
	if err := levels(c.Verbosity); err != nil {
		errors.AddToMultiple(&problems, errors.NewValidationError("verbosity", c.Verbosity, err.(utils.ValidationError).Message))
	}

	return problems.ErrOrNil()
}
