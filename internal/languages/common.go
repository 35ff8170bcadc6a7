package languages

import "strings"

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// SplitLines 把文本拆成行，行尾换行符被去除。
// 末尾换行不会产生额外的空行。
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.SplitAfter(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line == "" {
			continue
		}
		lines = append(lines, normalizeLine(line))
	}
	return lines
}

// Dedent 去除所有非空行共同的前导空白，空白行保持原样。
// 注释去掉标记后常带有统一缩进，不去除会导致 Python 片段解析失败。
func Dedent(lines []string) []string {
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		prefix = commonPrefix(prefix, indent)
		if prefix == "" {
			break
		}
	}

	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = strings.TrimPrefix(line, prefix)
	}
	return result
}

// commonPrefix 返回两个字符串的最长公共前缀。
func commonPrefix(a string, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
