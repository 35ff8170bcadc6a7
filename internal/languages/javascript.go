package languages

import (
	"regexp"

	"github.com/smacker/go-tree-sitter/javascript"
)

// JavaScript 使用 // 单行注释，/* */ 块注释作为字面量区域。
func JavaScript() *Language {
	return &Language{
		Name:              "JavaScript",
		Extensions:        []string{".js", ".mjs", ".cjs"},
		LineMarker:        "//",
		Literal:           regexp.MustCompile(`(?s)/\*(.*?)\*/`),
		LiteralLineMarker: "*",
		Prelude:           "'use strict';",
		Grammar:           javascript.GetLanguage,
		Trivial: kinds(
			"program",
			"expression_statement",
			"identifier",
			"number",
			"true",
			"false",
			"null",
			"undefined",
			"string",
			"string_fragment",
			"escape_sequence",
			"template_string",
			"comment",
			"hash_bang_line",
			"parenthesized_expression",
			// `TODO: refactor` 这类注释会被解析为带标签的语句。
			"labeled_statement",
			"statement_identifier",
		),
	}
}
