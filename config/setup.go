package config

import (
	"context"

	"github.com/north-cloud/richlog/encoding"
	richerrors "github.com/north-cloud/richlog/errors"
	"github.com/north-cloud/richlog/highlight"
	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/logger"
	"github.com/north-cloud/richlog/perf"
	"github.com/north-cloud/richlog/sink"
)

// Config describes a complete logger: the minimum level, the console
// presentation and the optional fan-out sinks. Boolean toggles use
// negative forms (Disabled, NoIcons, HideTime) so the YAML zero value
// gives the full default presentation.
type Config struct {
	Name  string `yaml:"name"  env:"LOG_NAME"`
	Level string `yaml:"level" env:"LOG_LEVEL"`

	Console       ConsoleConfig            `yaml:"console"`
	File          FileConfig               `yaml:"file"`
	Syslog        SyslogSinkConfig         `yaml:"syslog"`
	Redis         RedisSinkConfig          `yaml:"redis"`
	Elasticsearch ElasticsearchSinkConfig  `yaml:"elasticsearch"`
	Database      DatabaseSinkConfig       `yaml:"database"`

	// AsyncBuffer, when positive, wraps every network and database sink
	// in an async queue of that capacity.
	AsyncBuffer int `yaml:"async_buffer" env:"LOG_ASYNC_BUFFER"`
}

// ConsoleConfig controls the colorized console sink.
type ConsoleConfig struct {
	Disabled     bool   `yaml:"disabled"      env:"LOG_CONSOLE_DISABLED"`
	Color        string `yaml:"color"         env:"LOG_COLOR"` // auto, always, never
	NoBackground bool   `yaml:"no_background" env:"LOG_NO_BACKGROUND"`
	NoIcons      bool   `yaml:"no_icons"      env:"LOG_NO_ICONS"`
	IconFirst    bool   `yaml:"icon_first"    env:"LOG_ICON_FIRST"`
	HideTime     bool   `yaml:"hide_time"`
	HideName     bool   `yaml:"hide_name"`
	HidePID      bool   `yaml:"hide_pid"`
	HideLevel    bool   `yaml:"hide_level"`
	HidePath     bool   `yaml:"hide_path"`
	// Theme is the chroma style used for syntax highlighting of
	// messages carrying a lexer hint.
	Theme string `yaml:"theme" env:"LOG_THEME"`
}

// FileConfig controls the plain-text file sink.
type FileConfig struct {
	Enabled bool   `yaml:"enabled" env:"LOG_FILE_ENABLED"`
	Path    string `yaml:"path"    env:"LOG_FILE_PATH"`
	Level   string `yaml:"level"   env:"LOG_FILE_LEVEL"`
}

// SyslogSinkConfig controls the syslog sink.
type SyslogSinkConfig struct {
	Enabled bool `yaml:"enabled" env:"SYSLOG_ENABLED"`
	sink.SyslogConfig `yaml:",inline"`
}

// RedisSinkConfig controls the Redis pub/sub sink.
type RedisSinkConfig struct {
	Enabled bool `yaml:"enabled" env:"REDIS_LOG_ENABLED"`
	sink.RedisConfig `yaml:",inline"`
}

// ElasticsearchSinkConfig controls the Elasticsearch sink.
type ElasticsearchSinkConfig struct {
	Enabled bool `yaml:"enabled" env:"ELASTICSEARCH_LOG_ENABLED"`
	sink.ElasticsearchConfig `yaml:",inline"`
}

// DatabaseSinkConfig controls the SQL database sink.
type DatabaseSinkConfig struct {
	Enabled bool `yaml:"enabled" env:"LOG_DB_ENABLED"`
	sink.DatabaseConfig `yaml:",inline"`
}

// Setup builds a fully wired logger from the config: console and file
// presentation, network fan-out, optional async buffering. The tracker
// may be nil.
func Setup(ctx context.Context, cfg Config, tracker *perf.Tracker) (logger.Logger, error) {
	sinks, err := buildSinks(ctx, cfg)
	if err != nil {
		return nil, err
	}

	l, err := logger.New(logger.Config{
		Name:    cfg.Name,
		Level:   cfg.Level,
		Tracker: tracker,
	}, sinks...)
	if err != nil {
		closeSinks(sinks)
		return nil, err
	}
	return l, nil
}

// LoadAndSetup reads a YAML config file, applies .env and environment
// overrides through the generic loader, and builds the wired logger.
// The one-call path for services that keep their logging in a file.
func LoadAndSetup(ctx context.Context, path string, tracker *perf.Tracker) (logger.Logger, error) {
	cfg, err := Load[Config](path)
	if err != nil {
		return nil, richerrors.WrapWithContext(err, "load logging config")
	}
	return Setup(ctx, *cfg, tracker)
}

// MustSetup is like Setup but exits on failure, for main.go wiring.
func MustSetup(ctx context.Context, cfg Config, tracker *perf.Tracker) logger.Logger {
	l, err := Setup(ctx, cfg, tracker)
	if err != nil {
		logger.Must(logger.Config{Level: "error"}).Fatal("logger setup failed", logger.Error(err))
	}
	return l
}

func buildSinks(ctx context.Context, cfg Config) ([]sink.Sink, error) {
	var sinks []sink.Sink

	fail := func(err error) ([]sink.Sink, error) {
		closeSinks(sinks)
		return nil, err
	}

	if !cfg.Console.Disabled {
		sinks = append(sinks, consoleSink(cfg.Console))
	}

	if cfg.File.Enabled {
		min, err := sinkLevel(cfg.File.Level)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "file sink"))
		}
		f, err := sink.NewFile(cfg.File.Path, nil, min)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "file sink"))
		}
		sinks = append(sinks, f)
	}

	if cfg.Syslog.Enabled {
		min, err := sinkLevel(cfg.Syslog.Level)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "syslog sink"))
		}
		s, err := sink.NewSyslog(cfg.Syslog.SyslogConfig, min)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "syslog sink"))
		}
		sinks = append(sinks, maybeAsync(s, cfg.AsyncBuffer))
	}

	if cfg.Redis.Enabled {
		min, err := sinkLevel(cfg.Redis.Level)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "redis sink"))
		}
		r, err := sink.NewRedis(ctx, cfg.Redis.RedisConfig, min)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "redis sink"))
		}
		sinks = append(sinks, maybeAsync(r, cfg.AsyncBuffer))
	}

	if cfg.Elasticsearch.Enabled {
		min, err := sinkLevel(cfg.Elasticsearch.Level)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "elasticsearch sink"))
		}
		e, err := sink.NewElasticsearch(ctx, cfg.Elasticsearch.ElasticsearchConfig, min)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "elasticsearch sink"))
		}
		sinks = append(sinks, maybeAsync(e, cfg.AsyncBuffer))
	}

	if cfg.Database.Enabled {
		min, err := sinkLevel(cfg.Database.Level)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "database sink"))
		}
		d, err := sink.NewDatabase(ctx, cfg.Database.DatabaseConfig, min)
		if err != nil {
			return fail(richerrors.WrapWithContext(err, "database sink"))
		}
		sinks = append(sinks, maybeAsync(d, cfg.AsyncBuffer))
	}

	return sinks, nil
}

// consoleSink translates the console block into an ANSI encoder.
func consoleSink(cfg ConsoleConfig) sink.Sink {
	enc := encoding.ANSIConfig{
		ShowBackground: !cfg.NoBackground,
		ShowTime:       !cfg.HideTime,
		ShowName:       !cfg.HideName,
		ShowPID:        !cfg.HidePID,
		ShowLevel:      !cfg.HideLevel,
		ShowPath:       !cfg.HidePath,
		Highlighter:    highlight.New(cfg.Theme),
	}

	switch cfg.Color {
	case "always":
		enc.Color = encoding.ColorAlways
	case "never":
		enc.Color = encoding.ColorNever
	}

	switch {
	case cfg.NoIcons:
		enc.Icon = encoding.IconOff
	case cfg.IconFirst:
		enc.Icon = encoding.IconFirst
	}

	return sink.NewConsole(nil, encoding.NewANSIEncoder(enc), level.Debug)
}

// sinkLevel parses a per-sink level, defaulting to debug so a sink with
// no level of its own sees everything the logger lets through.
func sinkLevel(s string) (level.Level, error) {
	if s == "" {
		return level.Debug, nil
	}
	return level.Parse(s)
}

func maybeAsync(s sink.Sink, buffer int) sink.Sink {
	if buffer > 0 {
		return sink.NewAsync(s, buffer)
	}
	return s
}

func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		_ = s.Close()
	}
}
