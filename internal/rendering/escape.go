package rendering

import (
	"fmt"
	"strings"
)

// JSString quotes s as a single-quoted JavaScript string literal.
func JSString(s string) string {
	var result strings.Builder
	result.Grow(len(s) + 2)
	result.WriteByte('\'')

	for _, r := range s {
		switch r {
		case '\\':
			result.WriteString(`\\`)
		case '\'':
			result.WriteString(`\'`)
		case '\n':
			result.WriteString(`\n`)
		case '\r':
			result.WriteString(`\r`)
		case '\t':
			result.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&result, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&result, `\x%02x`, r)
				continue
			}
			result.WriteRune(r)
		}
	}

	result.WriteByte('\'')
	return result.String()
}

// JSStrings quotes each element and joins them with ", ".
func JSStrings(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = JSString(item)
	}
	return strings.Join(quoted, ", ")
}

var commentReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\u2028", " ", "\u2029", " ")

// CommentText flattens text so it stays inside a single // comment line.
func CommentText(s string) string {
	return commentReplacer.Replace(s)
}
