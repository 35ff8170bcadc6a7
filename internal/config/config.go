// Package config 加载 commentscan 的配置。
//
// 优先级：命令行参数 > 环境变量（COMMENTSCAN_ 前缀，可由 .env 提供）> 配置文件 > 默认值。
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"commentscan/internal/extract"
	"commentscan/internal/oracle"
	"commentscan/internal/scanner"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 是环境变量前缀。
const EnvPrefix = "COMMENTSCAN"

// DefaultFileName 是工作目录下默认查找的配置文件名（不含后缀）。
const DefaultFileName = ".commentscan"

// Config 是完整配置。
type Config struct {
	Workers     int          `json:"workers" mapstructure:"workers"`
	Format      string       `json:"format" mapstructure:"format"`
	Output      string       `json:"output" mapstructure:"output"`
	Overlap     string       `json:"overlap" mapstructure:"overlap"`
	ExcludeDirs []string     `json:"exclude_dirs" mapstructure:"exclude_dirs"`
	LogLevel    string       `json:"log_level" mapstructure:"log_level"`
	LogFormat   string       `json:"log_format" mapstructure:"log_format"`
	Oracle      OracleConfig `json:"oracle" mapstructure:"oracle"`
}

// OracleConfig 对应 oracle.Options。
type OracleConfig struct {
	MaxSnippetBytes int           `json:"max_snippet_bytes" mapstructure:"max_snippet_bytes"`
	MaxDepth        int           `json:"max_depth" mapstructure:"max_depth"`
	ParseTimeout    time.Duration `json:"parse_timeout" mapstructure:"parse_timeout"`
	CacheSize       int           `json:"cache_size" mapstructure:"cache_size"`
}

// Options 决定从哪里加载配置。
type Options struct {
	// File 显式指定配置文件，文件不存在时报错。
	File string
	// Dir 是查找 .commentscan.* 与 .env 的目录，默认当前目录。
	Dir string
	// Flags 中被用户显式设置的参数覆盖其他来源，flag 名与配置键一一对应。
	Flags *pflag.FlagSet
}

// flagKeys 把命令行参数名映射到配置键。
var flagKeys = map[string]string{
	"workers":           "workers",
	"format":            "format",
	"output":            "output",
	"overlap":           "overlap",
	"exclude":           "exclude_dirs",
	"log-level":         "log_level",
	"log-format":        "log_format",
	"max-snippet-bytes": "oracle.max_snippet_bytes",
	"max-depth":         "oracle.max_depth",
	"parse-timeout":     "oracle.parse_timeout",
	"cache-size":        "oracle.cache_size",
}

// Default 返回默认配置。
func Default() *Config {
	defaults := oracle.DefaultOptions()
	return &Config{
		Workers:     0,
		Format:      "table",
		Output:      "",
		Overlap:     string(extract.OverlapIndependent),
		ExcludeDirs: append([]string(nil), scanner.DefaultExcludeDirs...),
		LogLevel:    "warn",
		LogFormat:   "text",
		Oracle: OracleConfig{
			MaxSnippetBytes: defaults.MaxSnippetBytes,
			MaxDepth:        defaults.MaxDepth,
			ParseTimeout:    defaults.ParseTimeout,
			CacheSize:       defaults.CacheSize,
		},
	}
}

// Load 按优先级合并全部配置来源。
func Load(options Options) (*Config, error) {
	dir := options.Dir
	if dir == "" {
		dir = "."
	}

	// .env 只是可选的环境变量来源，不存在时忽略。
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if options.File != "" {
		v.SetConfigFile(options.File)
	} else {
		v.SetConfigName(DefaultFileName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if options.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if options.Flags != nil {
		for name, key := range flagKeys {
			flag := options.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults 把默认配置逐项注册到 viper，使环境变量可以覆盖嵌套键。
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("output", cfg.Output)
	v.SetDefault("overlap", cfg.Overlap)
	v.SetDefault("exclude_dirs", cfg.ExcludeDirs)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
	v.SetDefault("oracle.max_snippet_bytes", cfg.Oracle.MaxSnippetBytes)
	v.SetDefault("oracle.max_depth", cfg.Oracle.MaxDepth)
	v.SetDefault("oracle.parse_timeout", cfg.Oracle.ParseTimeout)
	v.SetDefault("oracle.cache_size", cfg.Oracle.CacheSize)
}

// Validate 检查配置取值是否合法。
func (c *Config) Validate() error {
	format := strings.ToLower(strings.TrimSpace(c.Format))
	if format != "table" && format != "json" {
		return &ConfigError{Field: "format", Message: "allowed values: table, json"}
	}
	c.Format = format

	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}

	overlap, err := extract.ParseOverlap(c.Overlap)
	if err != nil {
		return &ConfigError{Field: "overlap", Message: err.Error()}
	}
	c.Overlap = string(overlap)

	if c.Oracle.MaxSnippetBytes < 0 {
		return &ConfigError{Field: "oracle.max_snippet_bytes", Message: "must not be negative"}
	}
	if c.Oracle.MaxDepth < 0 {
		return &ConfigError{Field: "oracle.max_depth", Message: "must not be negative"}
	}
	if c.Oracle.ParseTimeout < 0 {
		return &ConfigError{Field: "oracle.parse_timeout", Message: "must not be negative"}
	}
	if c.Oracle.CacheSize < 0 {
		return &ConfigError{Field: "oracle.cache_size", Message: "must not be negative"}
	}
	return nil
}

// OracleOptions 转换为 oracle.Options。
func (c *Config) OracleOptions() oracle.Options {
	return oracle.Options{
		MaxSnippetBytes: c.Oracle.MaxSnippetBytes,
		MaxDepth:        c.Oracle.MaxDepth,
		ParseTimeout:    c.Oracle.ParseTimeout,
		CacheSize:       c.Oracle.CacheSize,
	}
}

// ConfigError 表示某个配置项不合法。
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
