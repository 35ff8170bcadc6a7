// Package oracle 通过“能否解析为代码”来判定一段文本的代码特征。
//
// 判定基于 tree-sitter 语法树：能够解析且包含平凡节点之外的结构，视为代码；
// 解析成功但只包含名称、常量等平凡节点，视为非代码；
// 无法解析通常意味着自然语言；资源耗尽的输入单独标记，由调用方排除。
package oracle

import "fmt"

// Verdict 是一次解析判定的结果，按值返回，不通过错误传递控制流。
type Verdict int

const (
	// SubstantiveCode 表示片段包含实质性代码结构。
	SubstantiveCode Verdict = iota
	// NoCode 表示片段可以解析，但只包含平凡节点。
	NoCode
	// SyntaxInvalid 表示片段无法解析，常见于自然语言文本。
	SyntaxInvalid
	// ResourceExhausted 表示解析因输入过大、嵌套过深或解析器中断而放弃。
	ResourceExhausted
)

var verdictNames = map[Verdict]string{
	SubstantiveCode:   "substantive_code",
	NoCode:            "no_code",
	SyntaxInvalid:     "syntax_invalid",
	ResourceExhausted: "resource_exhausted",
}

// String 返回判定结果的稳定名称。
func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return fmt.Sprintf("verdict(%d)", int(v))
}

// MarshalText 让判定结果在 JSON 中以名称输出。
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
