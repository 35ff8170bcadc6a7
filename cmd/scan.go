package cmd

import (
	"fmt"
	"strings"

	"commentscan/internal/extract"
	"commentscan/internal/languages"
	"commentscan/internal/report"
	"commentscan/internal/scanner"

	"github.com/spf13/cobra"
)

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	commentscan scan .
//	commentscan scan ./project --format json --output result.json
func newScanCmd(registry *languages.Registry, options *globalOptions) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描目录或文件并统计代码相关注释",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadRuntime(cmd, options)
			if err != nil {
				return err
			}
			cfg := deps.config

			service := scanner.NewService(registry, deps.oracle, scanner.Options{
				Workers:     cfg.Workers,
				Overlap:     extract.Overlap(cfg.Overlap),
				ExcludeDirs: cfg.ExcludeDirs,
				Logger:      deps.logger,
			})
			result, err := service.ScanPath(args[0])
			if err != nil {
				return err
			}

			stats := deps.oracle.Stats()
			deps.logger.Debug("oracle cache", "hits", stats.Hits, "misses", stats.Misses)

			switch cfg.Format {
			case "json":
				if err := report.PrintJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			default:
				if err := report.PrintTable(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			}

			outputPath := strings.TrimSpace(cfg.Output)
			if outputPath == "" {
				return nil
			}
			if err := report.WriteJSONFile(outputPath, result); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nJSON exported to %s\n", outputPath)
			return nil
		},
	}

	flags := scanCmd.Flags()
	flags.String("format", "table", "输出格式: table 或 json")
	flags.String("output", "", "json 导出文件路径，为空时不导出")
	flags.Int("workers", 0, "并发 worker 数量，0 表示 CPU 核数")
	flags.String("overlap", string(extract.OverlapIndependent), "注释与字面量区域重叠策略: independent 或 dedupe")
	flags.StringSlice("exclude", scanner.DefaultExcludeDirs, "跳过的目录名")

	return scanCmd
}
