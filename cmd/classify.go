package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"commentscan/internal/classify"
	"commentscan/internal/languages"

	"github.com/spf13/cobra"
)

// classifyOutput 是 classify 子命令的 JSON 输出。
type classifyOutput struct {
	Language string          `json:"language"`
	Result   classify.Result `json:"result"`
	Total    int             `json:"total_comment_lines"`
}

// newClassifyCmd 创建 classify 子命令，用于直接判定一段注释文本。
// 示例：
//
//	commentscan classify "x = 1"
//	printf 'if ok:\n    run()\n' | commentscan classify --json
func newClassifyCmd(registry *languages.Registry, options *globalOptions) *cobra.Command {
	var languageName string
	var asJSON bool

	classifyCmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "判定一段注释文本是代码还是自然语言",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language, ok := registry.Lookup(languageName)
			if !ok {
				return fmt.Errorf("unknown language %q", languageName)
			}

			text, err := readSnippet(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			deps, err := loadRuntime(cmd, options)
			if err != nil {
				return err
			}

			result := classify.New(deps.oracle, language).Text(text)

			if asJSON {
				content, err := json.MarshalIndent(classifyOutput{
					Language: language.Name,
					Result:   result,
					Total:    result.Total(),
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal json: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(content))
				return err
			}

			_, err = fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s (verdict %s): total=%d natural=%d code=%d blank=%d\n",
				result.Kind,
				result.Verdict,
				result.Total(),
				result.Natural,
				result.Code,
				result.Blank,
			)
			return err
		},
	}

	classifyCmd.Flags().StringVar(&languageName, "language", "Python", "片段所属语言")
	classifyCmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出")

	return classifyCmd
}

// readSnippet 优先使用参数，没有参数时从标准输入读取。
func readSnippet(reader io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(content), "\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty snippet")
	}
	return text, nil
}
