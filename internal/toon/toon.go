// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/extractclass/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeClasses renders the classes found under root as a TOON table.
func EncodeClasses(root string, classes []model.ClassInfo) string {
	var rows [][]string
	for i := range classes {
		ci := &classes[i]
		rows = append(rows, []string{
			ci.File,
			ci.Name,
			fmt.Sprintf("%d", ci.Line),
			fmt.Sprintf("%d", ci.Members),
		})
	}
	return strings.Join([]string{
		fmt.Sprintf("root: %s", encodeValue(root)),
		formatTabular("classes", []string{"file", "name", "line", "members"}, rows),
	}, "\n")
}

// EncodeMembers renders a class report. Dependencies are space separated.
func EncodeMembers(r *model.ClassReport) string {
	var rows [][]string
	for i := range r.Members {
		m := &r.Members[i]
		rows = append(rows, []string{
			m.Name,
			string(m.Kind),
			string(m.Visibility),
			strings.Join(m.Dependencies, " "),
		})
	}
	return strings.Join([]string{
		fmt.Sprintf("file: %s", encodeValue(r.File)),
		fmt.Sprintf("class: %s", encodeValue(r.Class)),
		formatTabular("members", []string{"name", "kind", "visibility", "dependencies"}, rows),
	}, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
