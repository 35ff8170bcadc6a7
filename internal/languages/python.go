package languages

import (
	"regexp"

	"github.com/smacker/go-tree-sitter/python"
)

// Python 是默认语言定义：# 单行注释，三引号字符串作为字面量区域。
func Python() *Language {
	return &Language{
		Name:       "Python",
		Extensions: []string{".py", ".pyw"},
		LineMarker: "#",
		// PEP 263 编码声明。
		Pragma:  regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*[-_.a-zA-Z0-9]+`),
		Literal: regexp.MustCompile(`(?s)"""(.*?)"""|'''(.*?)'''`),
		Prelude: "# -*- coding: utf-8 -*-",
		Grammar: python.GetLanguage,
		Trivial: kinds(
			"module",
			"expression_statement",
			"identifier",
			"integer",
			"float",
			"true",
			"false",
			"none",
			"ellipsis",
			"string",
			"string_start",
			"string_content",
			"string_end",
			"escape_sequence",
			"concatenated_string",
			"comment",
			"type",
			"parenthesized_expression",
		),
		AnnotationOnly: map[string]string{
			"assignment": "right",
		},
		Single: kinds("expression_statement"),
		// 语法仍保留 Python 2 的 print / exec 语句。
		Invalid:      kinds("print_statement", "exec_statement", "chevron"),
		EmptyInvalid: kinds("block"),
	}
}
