// Package extract 从源码行中提取注释块和字面量区域。
//
// 注释块按行扫描得到；字面量区域通过正则在全文范围内独立查找，
// 两条路径默认互不去重。
package extract

import (
	"fmt"
	"strings"

	"commentscan/internal/languages"
)

// Overlap 决定注释块与字面量区域重叠时的处理方式。
type Overlap string

const (
	// OverlapIndependent 两条路径独立统计，物理重叠的行可能被重复计数。
	OverlapIndependent Overlap = "independent"
	// OverlapDedupe 落在字面量区域内部的注释行不再参与注释块构建。
	OverlapDedupe Overlap = "dedupe"
)

// ParseOverlap 解析重叠策略名称，空字符串视为 independent。
func ParseOverlap(value string) (Overlap, error) {
	switch Overlap(strings.ToLower(strings.TrimSpace(value))) {
	case "", OverlapIndependent:
		return OverlapIndependent, nil
	case OverlapDedupe:
		return OverlapDedupe, nil
	default:
		return "", fmt.Errorf("unsupported overlap policy %q, allowed values: independent, dedupe", value)
	}
}

// CommentBlock 是一段连续的单行注释。
// Lines 已去掉注释标记并整体去除公共缩进。
type CommentBlock struct {
	Start int
	Lines []string
}

// Len 返回注释块行数。
func (b CommentBlock) Len() int {
	return len(b.Lines)
}

// Text 返回换行拼接后的注释文本。
func (b CommentBlock) Text() string {
	return strings.Join(b.Lines, "\n")
}

// LiteralRegion 是一对字面量定界符之间的文本，空白行已被过滤。
type LiteralRegion struct {
	Start int
	End   int
	Lines []string
}

// Len 返回字面量区域的非空行数。
func (r LiteralRegion) Len() int {
	return len(r.Lines)
}

// Text 返回换行拼接后的区域文本。
func (r LiteralRegion) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Result 是单个文件的提取结果。
type Result struct {
	Blocks  []CommentBlock
	Regions []LiteralRegion
}

// Extract 从文件行中提取注释块和字面量区域。
func Extract(lines []string, lang *languages.Language, overlap Overlap) Result {
	text := strings.Join(lines, "\n")
	regions := Regions(text, lang)

	var skip func(int) bool
	if overlap == OverlapDedupe {
		skip = insideRegions(regions)
	}

	return Result{
		Blocks:  Blocks(lines, lang, skip),
		Regions: regions,
	}
}

// Blocks 自上而下扫描文件行，把连续注释行累积为注释块。
// skip 为 nil 时不跳过任何行；被跳过的行等同于非注释行。
func Blocks(lines []string, lang *languages.Language, skip func(int) bool) []CommentBlock {
	blocks := make([]CommentBlock, 0)
	var current *CommentBlock

	closeBlock := func() {
		if current != nil {
			current.Lines = languages.Dedent(current.Lines)
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for index, line := range lines {
		// 首行编码声明不参与注释块构建。
		if index == 0 && lang.IsPragma(line) {
			continue
		}

		if (skip != nil && skip(index)) || !lang.IsCommentLine(line) {
			closeBlock()
			continue
		}

		content := lang.StripMarker(line)
		// 标记之后为空的注释行直接跳过，既不计数也不打断当前注释块。
		if strings.TrimSpace(content) == "" {
			continue
		}

		if current == nil {
			current = &CommentBlock{Start: index}
		}
		current.Lines = append(current.Lines, strings.TrimRight(content, " \t\r"))
	}
	closeBlock()

	return blocks
}

// Regions 在全文范围内查找全部字面量区域。
func Regions(text string, lang *languages.Language) []LiteralRegion {
	if lang.Literal == nil {
		return nil
	}

	matches := lang.Literal.FindAllStringSubmatchIndex(text, -1)
	regions := make([]LiteralRegion, 0, len(matches))
	for _, match := range matches {
		inner := innerText(text, match)

		lines := make([]string, 0)
		for _, line := range strings.Split(inner, "\n") {
			line = strings.TrimRight(line, " \t\r")
			if lang.LiteralLineMarker != "" {
				trimmed := strings.TrimLeft(line, " \t")
				if strings.HasPrefix(trimmed, lang.LiteralLineMarker) {
					line = strings.TrimPrefix(trimmed, lang.LiteralLineMarker)
				}
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}

		regions = append(regions, LiteralRegion{
			Start: strings.Count(text[:match[0]], "\n"),
			End:   strings.Count(text[:match[1]], "\n"),
			Lines: cleanDoc(lines),
		})
	}
	return regions
}

// cleanDoc 去除首行前导空白，其余行整体去除公共缩进。
// 首行通常紧跟在起始定界符之后，缩进与后续行不一致。
func cleanDoc(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	return append([]string{strings.TrimLeft(lines[0], " \t")}, languages.Dedent(lines[1:])...)
}

// innerText 返回第一个参与匹配的捕获组，没有捕获组时返回整个匹配。
func innerText(text string, match []int) string {
	for group := 1; group*2+1 < len(match); group++ {
		start, end := match[group*2], match[group*2+1]
		if start >= 0 {
			return text[start:end]
		}
	}
	return text[match[0]:match[1]]
}

// insideRegions 返回判断某行是否落在字面量区域内的函数。
func insideRegions(regions []LiteralRegion) func(int) bool {
	return func(index int) bool {
		for _, region := range regions {
			if index >= region.Start && index <= region.End {
				return true
			}
		}
		return false
	}
}
