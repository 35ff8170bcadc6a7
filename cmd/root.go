// Package cmd 提供 commentscan 的命令行入口与子命令编排。
package cmd

import (
	"fmt"
	"log/slog"

	"commentscan/internal/config"
	"commentscan/internal/languages"
	"commentscan/internal/logging"
	"commentscan/internal/oracle"

	"github.com/spf13/cobra"
)

// globalOptions 存放所有子命令共享的参数。
type globalOptions struct {
	configFile string
	verbosity  int
	quiet      bool
}

// runtimeDeps 是根据配置构建出的运行期依赖。
type runtimeDeps struct {
	config *config.Config
	logger *slog.Logger
	oracle *oracle.Oracle
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	registry := languages.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	options := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "commentscan",
		Short: "识别被注释掉的代码",
		Long: "commentscan 逐个检查源码中的注释，用解析器判断注释内容能否作为代码解析，\n" +
			"统计代码相关注释与自然语言注释的行数，并列出包含注释代码的文件。",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.configFile, "config", "", "配置文件路径，默认查找 ./.commentscan.{yaml,json,toml}")
	flags.CountVarP(&options.verbosity, "verbose", "v", "输出更多日志，可重复")
	flags.BoolVarP(&options.quiet, "quiet", "q", false, "关闭日志输出")
	flags.String("log-level", "warn", "日志级别: debug, info, warn, error")
	flags.String("log-format", "text", "日志格式: text 或 json")
	flags.Int("max-snippet-bytes", oracle.DefaultMaxSnippetBytes, "单个片段的最大字节数，超出按资源耗尽排除")
	flags.Int("max-depth", oracle.DefaultMaxDepth, "语法树最大深度，超出按资源耗尽排除")
	flags.Duration("parse-timeout", 0, "单次解析超时，0 表示不限制")
	flags.Int("cache-size", oracle.DefaultCacheSize, "判定缓存条目数，0 表示关闭")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newScanCmd(registry, options))
	rootCmd.AddCommand(newClassifyCmd(registry, options))

	return rootCmd
}

// loadRuntime 合并配置并创建日志器与判定器。
func loadRuntime(cmd *cobra.Command, options *globalOptions) (*runtimeDeps, error) {
	cfg, err := config.Load(config.Options{
		File:  options.configFile,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}

	level := logging.LevelFromVerbosity(options.verbosity, options.quiet, logging.LevelFromString(cfg.LogLevel))
	logger := logging.NewLogger(cmd.ErrOrStderr(), level, logging.Format(cfg.LogFormat))

	judge, err := oracle.New(cfg.OracleOptions())
	if err != nil {
		return nil, fmt.Errorf("create oracle: %w", err)
	}

	logger.Debug("configuration loaded",
		"workers", cfg.Workers,
		"overlap", cfg.Overlap,
		"max_snippet_bytes", cfg.Oracle.MaxSnippetBytes,
		"max_depth", cfg.Oracle.MaxDepth,
	)

	return &runtimeDeps{config: cfg, logger: logger, oracle: judge}, nil
}
