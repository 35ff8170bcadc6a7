// Package report 提供 commentscan 的输出能力。
// 当前实现支持 table 控制台格式和 JSON 格式（含文件导出）。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"commentscan/internal/model"

	"github.com/fatih/color"
)

// FormatRatio 把代码相关注释占比格式化为百分比，分母为 0 时输出 n/a。
func FormatRatio(tally model.Tally) string {
	ratio, ok := tally.Ratio()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// PrintTable 使用表格展示扫描结果，包含代码相关注释的文件会被高亮。
func PrintTable(writer io.Writer, result model.ScanResult) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	flagged := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if _, err := fmt.Fprintf(tw, "SCANNED PATH\t%s\n\n", result.ScannedPath); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(tw, "FILE\tLANGUAGE\tTOTAL\tNATURAL\tCODE\tRATIO"); err != nil {
		return err
	}
	for _, item := range result.Files {
		path := item.Path
		if item.Flagged() {
			path = flagged(path)
		}
		if _, err := fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%d\t%d\t%s\n",
			path,
			item.Language,
			item.Tally.Total,
			item.Tally.Natural,
			item.Tally.Code,
			FormatRatio(item.Tally),
		); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(tw, "\nLANGUAGE\tFILES\tTOTAL\tNATURAL\tCODE\tRATIO"); err != nil {
		return err
	}
	for _, item := range result.Languages {
		if _, err := fmt.Fprintf(
			tw,
			"%s\t%d\t%d\t%d\t%d\t%s\n",
			item.Language,
			item.Files,
			item.Tally.Total,
			item.Tally.Natural,
			item.Tally.Code,
			FormatRatio(item.Tally),
		); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(
		tw,
		"\n%s\t%d\t%d\t%d\t%d\t%s\n",
		bold("TOTAL"),
		result.Total.Files,
		result.Total.Total,
		result.Total.Natural,
		result.Total.Code,
		FormatRatio(result.Total.Tally),
	); err != nil {
		return err
	}

	if len(result.Flagged) > 0 {
		if _, err := fmt.Fprintln(tw, "\nFLAGGED FILE"); err != nil {
			return err
		}
		for _, path := range result.Flagged {
			if _, err := fmt.Fprintln(tw, flagged(path)); err != nil {
				return err
			}
		}
	}

	if len(result.Errors) > 0 {
		if _, err := fmt.Fprintln(tw, "\nERROR FILE\tMESSAGE"); err != nil {
			return err
		}
		for _, item := range result.Errors {
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", item.Path, item.Error); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}

// jsonReport 在扫描结果之外附带总体占比，分母为 0 时为 null。
type jsonReport struct {
	model.ScanResult
	Ratio *float64 `json:"code_related_ratio"`
}

func newJSONReport(result model.ScanResult) jsonReport {
	report := jsonReport{ScanResult: result}
	if ratio, ok := result.Total.Ratio(); ok {
		report.Ratio = &ratio
	}
	return report
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult) error {
	content, err := json.MarshalIndent(newJSONReport(result), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteJSONFile 将 JSON 结果导出到指定路径。
// 如果目录不存在会自动创建。
func WriteJSONFile(path string, result model.ScanResult) error {
	content, err := json.MarshalIndent(newJSONReport(result), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
