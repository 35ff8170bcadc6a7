package languages

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language 描述一种语言的注释语法以及解析判定所需的全部信息。
// 每种语言在独立文件中声明，注册中心只负责按后缀查找。
type Language struct {
	// Name 返回语言名称（例如 Python、JavaScript）。
	Name string
	// Extensions 是该语言支持的后缀列表（包含点号，如 .py）。
	Extensions []string
	// LineMarker 是单行注释标记。
	LineMarker string
	// Pragma 匹配首行编码声明，命中的首行不参与注释块构建。为 nil 表示不检查。
	Pragma *regexp.Regexp
	// Literal 在全文范围内非贪婪匹配字面量区域，内部文本取第一个非空的捕获组。
	Literal *regexp.Regexp
	// LiteralLineMarker 是字面量区域每行可选的装饰前缀（例如 JSDoc 的 *）。
	LiteralLineMarker string
	// Prelude 是解析前追加在片段开头的中性声明行。
	Prelude string
	// Grammar 返回 tree-sitter 语法。
	Grammar func() *sitter.Language
	// Trivial 是“平凡节点”种类集合，这些节点不携带任何代码特征。
	Trivial map[string]struct{}
	// AnnotationOnly 中的节点种类只有在缺少 value 字段时才算平凡，
	// 例如 Python 的 `x: int`。
	AnnotationOnly map[string]string
	// Single 中的节点种类只有在至多包含一个非注释命名子节点时才算平凡，
	// 例如 Python 的 `a, b` 在语法树中是带两个子节点的表达式语句。
	Single map[string]struct{}
	// Invalid 是语法层面可接受、但目标语言实际会拒绝的节点种类。
	Invalid map[string]struct{}
	// EmptyInvalid 中的节点种类没有任何非注释命名子节点时视为语法错误，
	// 例如 Python 中以冒号结尾却没有语句体的 `if ready:`。
	EmptyInvalid map[string]struct{}
}

// IsTrivial 判断节点是否属于平凡节点。
func (l *Language) IsTrivial(node *sitter.Node) bool {
	kind := node.Type()
	if _, ok := l.Single[kind]; ok {
		return namedChildren(node) <= 1
	}
	if _, ok := l.Trivial[kind]; ok {
		return true
	}
	if field, ok := l.AnnotationOnly[kind]; ok {
		return node.ChildByFieldName(field) == nil
	}
	return false
}

// IsInvalid 判断节点是否应当按语法错误处理。
func (l *Language) IsInvalid(node *sitter.Node) bool {
	kind := node.Type()
	if _, ok := l.Invalid[kind]; ok {
		return true
	}
	if _, ok := l.EmptyInvalid[kind]; ok {
		return namedChildren(node) == 0
	}
	return false
}

// namedChildren 统计非注释的命名子节点数量。
func namedChildren(node *sitter.Node) int {
	count := 0
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Type() != "comment" {
			count++
		}
	}
	return count
}

// IsCommentLine 判断去掉首尾空白后是否以单行注释标记开头。
func (l *Language) IsCommentLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), l.LineMarker)
}

// StripMarker 去掉行首空白和注释标记，保留标记之后的原始缩进。
func (l *Language) StripMarker(line string) string {
	return strings.TrimPrefix(strings.TrimSpace(line), l.LineMarker)
}

// IsPragma 判断给定行是否为编码声明。
func (l *Language) IsPragma(line string) bool {
	return l.Pragma != nil && l.Pragma.MatchString(line)
}

// kinds 把节点种类列表转换为集合。
func kinds(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
