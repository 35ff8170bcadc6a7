// Package model 定义 commentscan 的核心数据模型。
// 这些结构会被分类器、扫描器、输出层和命令层共同使用。
package model

// Tally 表示一组注释行统计值。
//
// 注意：
// - Total 只统计参与分类的注释行，空白注释行在汇总前已经扣除
// - 完成全部修正后必须满足 Natural + Code == Total
type Tally struct {
	Total   int64 `json:"total_comment_lines"`
	Natural int64 `json:"natural_language_lines"`
	Code    int64 `json:"code_related_lines"`
}

// Add 将另一个统计结果叠加到当前对象。
// 加法满足交换律和结合律，目录汇总与文件处理顺序无关。
func (t *Tally) Add(other Tally) {
	t.Total += other.Total
	t.Natural += other.Natural
	t.Code += other.Code
}

// Ratio 返回代码相关注释行占比。
// 分母为 0 时 ok 为 false，调用方需要自行决定如何展示。
func (t Tally) Ratio() (ratio float64, ok bool) {
	if t.Total == 0 {
		return 0, false
	}
	return float64(t.Code) / float64(t.Total), true
}

// Balanced 检查 Natural + Code == Total 不变量。
func (t Tally) Balanced() bool {
	return t.Natural+t.Code == t.Total
}

// FileTally 表示单文件扫描结果。
type FileTally struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Tally    Tally  `json:"tally"`
	// Blocks 与 Regions 记录本文件参与分类的注释块和字面量区域数量。
	Blocks   int `json:"blocks"`
	Regions  int `json:"regions"`
	Excluded int `json:"excluded"`
}

// Flagged 表示文件中至少有一行代码相关注释。
func (f FileTally) Flagged() bool {
	return f.Tally.Code > 0
}

// LanguageTally 表示某个语言的聚合结果。
type LanguageTally struct {
	Language   string   `json:"language"`
	Extensions []string `json:"extensions"`
	Files      int64    `json:"files"`
	Tally      Tally    `json:"tally"`
}

// ScanError 记录单文件扫描失败信息。
// 设计为“错误不阻断全量扫描”，便于大仓库分析时容错。
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// TreeTally 表示目录级总计信息。
type TreeTally struct {
	Files int64 `json:"files"`
	Tally
}

// AddFileTally 累加一个文件的统计值到目录总计中。
func (t *TreeTally) AddFileTally(other Tally) {
	t.Files++
	t.Tally.Add(other)
}

// ScanResult 是 scan 命令的完整输出模型。
// 包含文件级明细、语言级汇总、全局总计、被标记文件和错误列表。
type ScanResult struct {
	ScannedPath string          `json:"scanned_path"`
	Files       []FileTally     `json:"files"`
	Languages   []LanguageTally `json:"languages"`
	Total       TreeTally       `json:"total"`
	Flagged     []string        `json:"flagged"`
	Errors      []ScanError     `json:"errors"`
}
