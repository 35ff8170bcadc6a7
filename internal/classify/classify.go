// Package classify 按行统计注释块与字面量区域中的代码相关行和自然语言行。
package classify

import (
	"fmt"
	"strings"

	"commentscan/internal/extract"
	"commentscan/internal/languages"
	"commentscan/internal/model"
	"commentscan/internal/oracle"
)

// Judge 是解析判定的最小接口，*oracle.Oracle 实现了该接口。
type Judge interface {
	Classify(lang *languages.Language, text string) oracle.Verdict
}

// Kind 是单元级分类结果。
type Kind int

const (
	// AllCode 表示单元内每一行都是代码相关注释。
	AllCode Kind = iota
	// AllNatural 表示单元内每一行都是自然语言注释。
	AllNatural
	// PartialCount 表示逐行回退判定，只有部分行是代码相关注释。
	PartialCount
	// Excluded 表示单元因资源耗尽被整体排除，不计入任何统计。
	Excluded
)

var kindNames = map[Kind]string{
	AllCode:      "all_code",
	AllNatural:   "all_natural",
	PartialCount: "partial_count",
	Excluded:     "excluded",
}

// String 返回分类结果的稳定名称。
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText 让分类结果在 JSON 中以名称输出。
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result 是一个注释块或字面量区域的分类结果。
// Blank 是本单元逐行回退时遇到的空白行数，只属于当前单元。
type Result struct {
	Kind    Kind           `json:"kind"`
	Verdict oracle.Verdict `json:"verdict"`
	Lines   int            `json:"lines"`
	Blank   int            `json:"blank"`
	Code    int            `json:"code"`
	Natural int            `json:"natural"`
}

// Total 返回扣除空白行后的注释行数，被排除的单元为 0。
func (r Result) Total() int {
	if r.Kind == Excluded {
		return 0
	}
	return r.Lines - r.Blank
}

// Tally 把单元结果转换为可累加的统计值。
func (r Result) Tally() model.Tally {
	return model.Tally{
		Total:   int64(r.Total()),
		Natural: int64(r.Natural),
		Code:    int64(r.Code),
	}
}

// Classifier 对单一语言的注释单元进行分类，不持有可变状态。
type Classifier struct {
	judge Judge
	lang  *languages.Language
}

// New 创建分类器。
func New(judge Judge, lang *languages.Language) *Classifier {
	return &Classifier{judge: judge, lang: lang}
}

// Language 返回分类器绑定的语言。
func (c *Classifier) Language() *languages.Language {
	return c.lang
}

// Block 分类一个注释块。单行注释块只做一次判定，不进入资源排除逻辑。
func (c *Classifier) Block(block extract.CommentBlock) Result {
	if block.Len() == 1 {
		return c.single(block.Lines[0])
	}
	return c.multi(block.Lines)
}

// Region 分类一个字面量区域。字面量区域总是走多行路径，即使只有一行。
func (c *Classifier) Region(region extract.LiteralRegion) Result {
	return c.multi(region.Lines)
}

// Text 按注释块规则分类任意文本，多行文本走多行路径。
func (c *Classifier) Text(text string) Result {
	lines := languages.SplitLines(text)
	if len(lines) == 1 {
		return c.single(lines[0])
	}
	return c.multi(lines)
}

// single 对单行文本做一次判定。
func (c *Classifier) single(line string) Result {
	verdict := c.judge.Classify(c.lang, strings.TrimSpace(line))
	if verdict == oracle.SubstantiveCode {
		return Result{Kind: AllCode, Verdict: verdict, Lines: 1, Code: 1}
	}
	return Result{Kind: AllNatural, Verdict: verdict, Lines: 1, Natural: 1}
}

// multi 先整体判定，整体无法解析时逐行回退。
func (c *Classifier) multi(lines []string) Result {
	total := len(lines)
	if total == 0 {
		return Result{Kind: AllNatural, Verdict: oracle.NoCode}
	}

	verdict := c.judge.Classify(c.lang, strings.Join(lines, "\n"))
	switch verdict {
	case oracle.SubstantiveCode:
		return Result{Kind: AllCode, Verdict: verdict, Lines: total, Code: total}
	case oracle.ResourceExhausted:
		return Result{Kind: Excluded, Verdict: verdict, Lines: total}
	case oracle.NoCode:
		return Result{Kind: AllNatural, Verdict: verdict, Lines: total, Natural: total}
	}

	result := Result{Kind: PartialCount, Verdict: verdict, Lines: total}
	for _, line := range lines {
		trimmed := strings.TrimSpace(c.lang.StripMarker(line))
		if trimmed == "" {
			result.Blank++
			continue
		}
		if c.judge.Classify(c.lang, trimmed) == oracle.SubstantiveCode {
			result.Code++
		} else {
			result.Natural++
		}
	}
	return result
}

// File 分类一个文件的全部注释单元并汇总。
func (c *Classifier) File(units extract.Result) FileSummary {
	var summary FileSummary
	for _, block := range units.Blocks {
		summary.add(c.Block(block))
		summary.Blocks++
	}
	for _, region := range units.Regions {
		// 空字面量区域不计入统计。
		if region.Len() == 0 {
			continue
		}
		summary.add(c.Region(region))
		summary.Regions++
	}
	return summary
}

// FileSummary 是单个文件所有单元分类结果的汇总。
type FileSummary struct {
	Tally    model.Tally
	Blocks   int
	Regions  int
	Excluded int
}

func (s *FileSummary) add(result Result) {
	if result.Kind == Excluded {
		s.Excluded++
	}
	s.Tally.Add(result.Tally())
}
