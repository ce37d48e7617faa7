package typescript

import "strings"

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(source []byte, pos int) string {
	start := pos
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end := start
	for end < pos && (source[end] == ' ' || source[end] == '\t') {
		end++
	}
	return string(source[start:end])
}

// dedent strips indent from every line of text after the first.
func dedent(text, indent string) string {
	if indent == "" || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimPrefix(lines[i], indent)
	}
	return strings.Join(lines, "\n")
}

// indentLines prefixes every non-empty line of text with indent.
func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// indentContinuation prefixes every non-empty line after the first.
func indentContinuation(text, indent string) string {
	if indent == "" {
		return text
	}
	first, rest, ok := strings.Cut(text, "\n")
	if !ok {
		return text
	}
	return first + "\n" + indentLines(rest, indent)
}
