package typescript

import (
	"fmt"
	"strings"

	"github.com/phobologic/extractclass/internal/model"
)

// Member is a field, method or constructor parameter property.
//
// Text is held in pieces around the accessibility modifier so visibility
// can change without reparsing: leading comments and decorators, the text
// before the modifier, the modifier, the text after it, and for members
// with a body, the statement block.
type Member struct {
	class    *Class
	kind     model.MemberKind
	name     string
	leading  string
	prefix   string
	scope    string
	head     string
	body     string
	accessor string
	params   []string
	typeText string
	removed  bool
}

var _ model.Member = (*Member)(nil)

func (m *Member) Name() string           { return m.name }
func (m *Member) Kind() model.MemberKind { return m.kind }

func (m *Member) Visibility() model.Visibility {
	switch m.scope {
	case "private":
		return model.Private
	case "protected":
		return model.Protected
	}
	return model.Public
}

func (m *Member) IsPrivate() bool { return m.Visibility() == model.Private }

// DependencyNames returns the this.name references of the current text
// that name members of the owning class. Method parameters are not
// searched.
func (m *Member) DependencyNames() []string {
	if m.class == nil || m.removed {
		return nil
	}
	var names []string
	for _, name := range memberRefs(m.class.lang, m.fragment()) {
		if m.class.lookup(name) != nil {
			names = append(names, name)
		}
	}
	return names
}

// fragment wraps the searchable text of m in a class declaration that
// parses on its own.
func (m *Member) fragment() string {
	switch {
	case m.kind == model.KindConstructorParameter:
		return "class __Deps {\nconstructor(" + m.text() + ") {}\n}"
	case m.body != "":
		return "class __Deps {\n__deps() " + m.body + "\n}"
	}
	return "class __Deps {\n" + m.text() + ";\n}"
}

// DelegateTo rewrites the body to forward through target. Fields become
// get accessors with the field's visibility and type.
func (m *Member) DelegateTo(target model.Member) {
	indent := "\t"
	if m.class != nil {
		indent = m.class.indent
	}
	via := "this." + target.Name() + "." + m.name

	switch m.kind {
	case model.KindMethod:
		switch m.accessor {
		case "get":
			m.body = block(indent, "return "+via+";")
		case "set":
			arg := "value"
			if len(m.params) > 0 {
				arg = m.params[0]
			}
			m.body = block(indent, via+" = "+arg+";")
		default:
			m.body = block(indent, fmt.Sprintf("return %s(%s);", via, strings.Join(m.params, ", ")))
		}
	case model.KindField:
		if m.scope == "public" {
			m.scope = ""
		}
		m.prefix = ""
		m.accessor = "get"
		m.head = "get " + m.name + "()"
		if m.typeText != "" {
			m.head += ": " + m.typeText
		}
		m.body = block(indent, "return "+via+";")
	}
}

func (m *Member) MarkAsPublic() {
	if m.kind == model.KindConstructorParameter {
		return
	}
	m.scope = ""
}

func (m *Member) Remove() {
	m.removed = true
	m.class = nil
}

// text renders the member without leading comments.
func (m *Member) text() string {
	var b strings.Builder
	b.WriteString(m.prefix)
	if m.scope != "" {
		b.WriteString(m.scope)
		b.WriteString(" ")
	}
	b.WriteString(m.head)
	if m.body != "" {
		b.WriteString(" ")
		b.WriteString(m.body)
	} else if m.kind == model.KindField {
		b.WriteString(";")
	}
	return b.String()
}

func (m *Member) render() string {
	return m.leading + m.text()
}

func (m *Member) copyTo(c *Class) *Member {
	cp := *m
	cp.class = c
	cp.params = append([]string(nil), m.params...)
	return &cp
}

func block(indent string, stmt string) string {
	return "{\n" + indent + stmt + "\n}"
}
