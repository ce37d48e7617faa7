// Package pseudo implements the class model over a minimal line-oriented
// notation. It exists so the extraction engine can be exercised without a
// real language parser.
//
// A class is written as its name followed by one indented line per member
// and, further indented, the member's body lines:
//
//	Source
//		-param prop: number
//		+a(x)
//			->b()
//		-b()
//			->prop
//
// The first character of a member line is its visibility (+ public,
// # protected, - private). The keyword "param" marks a constructor
// parameter and "get" a computed accessor; parentheses mark a method.
// Body lines reference other members of the class as ->name.
package pseudo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/extractclass/internal/model"
)

// ErrMalformed is returned by Parse for text it cannot read as a class.
var ErrMalformed = errors.New("malformed pseudo class")

var (
	classNameRe  = regexp.MustCompile(`\w+`)
	memberLineRe = regexp.MustCompile(`^([+#-])(?:(param|get)\s+)?(\w+)(\(([^)]*)\))?(?:\s*:\s*(\S.*))?$`)
	referenceRe  = regexp.MustCompile(`->(\w+)`)
	indentRe     = regexp.MustCompile(`^\s*`)
)

const (
	keywordParam = "param"
	keywordGet   = "get"
)

// Class is a pseudo-notation class definition.
type Class struct {
	name    string
	members []*Member
}

var _ model.Class = (*Class)(nil)

// Format normalises pseudo-notation text: the indentation of the first
// non-empty line is removed from every line and surrounding blank lines
// are trimmed.
func Format(code string) string {
	lines := strings.Split(code, "\n")
	indent := ""
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			indent = indentRe.FindString(line)
			break
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(line, indent), " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// Parse reads a class from pseudo-notation source.
func Parse(source string) (*Class, error) {
	lines := strings.Split(Format(source), "\n")
	name := classNameRe.FindString(lines[0])
	if name == "" {
		return nil, fmt.Errorf("%w: class name not found", ErrMalformed)
	}

	c := &Class{name: name}
	memberIndent := -1
	var current *Member

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(indentRe.FindString(line))
		if memberIndent < 0 {
			memberIndent = indent
		}
		text := strings.TrimSpace(line)

		if indent > memberIndent {
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: body line outside a member", ErrMalformed, i+2)
			}
			current.body = append(current.body, text)
			continue
		}

		m, err := parseMember(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, i+2, err)
		}
		if c.lookup(m.name) != nil {
			return nil, fmt.Errorf("line %d: %w: %q", i+2, model.ErrDuplicateMember, m.name)
		}
		m.class = c
		c.members = append(c.members, m)
		current = m
	}

	return c, nil
}

func parseMember(text string) (*Member, error) {
	match := memberLineRe.FindStringSubmatch(text)
	if match == nil {
		return nil, fmt.Errorf("cannot read member %q", text)
	}

	m := &Member{
		visibility: visibilityFor(match[1]),
		name:       match[3],
		typ:        match[6],
		kind:       model.KindField,
	}
	switch match[2] {
	case keywordParam:
		m.kind = model.KindConstructorParameter
	case keywordGet:
		m.accessor = true
	}
	if match[4] != "" {
		if m.kind == model.KindConstructorParameter || m.accessor {
			return nil, fmt.Errorf("member %q cannot take parameters", m.name)
		}
		m.kind = model.KindMethod
		for _, p := range strings.Split(match[5], ",") {
			if p = strings.TrimSpace(p); p != "" {
				m.params = append(m.params, p)
			}
		}
	}
	return m, nil
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Members returns the members in declaration order.
func (c *Class) Members() []model.Member {
	out := make([]model.Member, len(c.members))
	for i, m := range c.members {
		out[i] = m
	}
	return out
}

// Member returns the named member.
func (c *Class) Member(name string) (model.Member, error) {
	m := c.lookup(name)
	if m == nil {
		return nil, fmt.Errorf("%w: %q in class %s", model.ErrMemberNotFound, name, c.name)
	}
	return m, nil
}

func (c *Class) lookup(name string) *Member {
	for _, m := range c.members {
		if m.name == name {
			return m
		}
	}
	return nil
}

// Clone returns an independent copy of the class named name.
func (c *Class) Clone(name string) model.Class {
	clone := &Class{name: name, members: make([]*Member, len(c.members))}
	for i, m := range c.members {
		cp := *m
		cp.class = clone
		cp.params = append([]string(nil), m.params...)
		cp.body = append([]string(nil), m.body...)
		clone.members[i] = &cp
	}
	return clone
}

// AddOwnedPrivateProperty inserts a private field holding a new instance of
// of as the first member.
func (c *Class) AddOwnedPrivateProperty(of model.Class) (model.Member, error) {
	name := model.PropertyName(of.Name())
	if c.lookup(name) != nil {
		return nil, fmt.Errorf("%w: %q in class %s", model.ErrDuplicateMember, name, c.name)
	}

	var args []string
	for _, m := range of.Members() {
		if m.Kind() == model.KindConstructorParameter {
			args = append(args, "->"+m.Name())
		}
	}

	prop := &Member{
		class:      c,
		kind:       model.KindField,
		visibility: model.Private,
		name:       name,
		typ:        of.Name(),
		body:       []string{fmt.Sprintf("new %s(%s)", of.Name(), strings.Join(args, ", "))},
	}
	c.members = append([]*Member{prop}, c.members...)
	return prop, nil
}

// Serialize renders the class in pseudo notation.
func (c *Class) Serialize() string {
	var b strings.Builder
	b.WriteString(c.name)
	for _, m := range c.members {
		b.WriteString("\n\t")
		b.WriteString(m.header())
		for _, line := range m.body {
			b.WriteString("\n\t\t")
			b.WriteString(line)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (c *Class) remove(target *Member) {
	for i, m := range c.members {
		if m == target {
			c.members = append(c.members[:i], c.members[i+1:]...)
			return
		}
	}
}

func visibilityFor(symbol string) model.Visibility {
	switch symbol {
	case "+":
		return model.Public
	case "#":
		return model.Protected
	default:
		return model.Private
	}
}

func symbolFor(v model.Visibility) string {
	switch v {
	case model.Public:
		return "+"
	case model.Protected:
		return "#"
	default:
		return "-"
	}
}
