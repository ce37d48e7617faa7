package pseudo

import (
	"fmt"
	"strings"

	"github.com/phobologic/extractclass/internal/model"
)

// Member is a pseudo-notation class member.
type Member struct {
	class      *Class
	kind       model.MemberKind
	visibility model.Visibility
	accessor   bool
	name       string
	params     []string
	typ        string
	body       []string
}

var _ model.Member = (*Member)(nil)

func (m *Member) Name() string                 { return m.name }
func (m *Member) Kind() model.MemberKind       { return m.kind }
func (m *Member) Visibility() model.Visibility { return m.visibility }
func (m *Member) IsPrivate() bool              { return m.visibility == model.Private }

// DependencyNames returns the ->name references of the body that name
// members of the owning class.
func (m *Member) DependencyNames() []string {
	if m.class == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var names []string
	for _, line := range m.body {
		for _, match := range referenceRe.FindAllStringSubmatch(line, -1) {
			name := match[1]
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			if m.class.lookup(name) != nil {
				names = append(names, name)
			}
		}
	}
	return names
}

// DelegateTo replaces the body with a forwarding call through target.
// Fields become accessors reading through target.
func (m *Member) DelegateTo(target model.Member) {
	switch m.kind {
	case model.KindMethod:
		m.body = []string{fmt.Sprintf("->%s.%s(%s)", target.Name(), m.name, strings.Join(m.params, ", "))}
	case model.KindField:
		m.accessor = true
		m.body = []string{fmt.Sprintf("->%s.%s", target.Name(), m.name)}
	}
}

func (m *Member) MarkAsPublic() {
	if m.kind == model.KindConstructorParameter {
		return
	}
	m.visibility = model.Public
}

func (m *Member) Remove() {
	if m.class == nil {
		return
	}
	m.class.remove(m)
	m.class = nil
}

func (m *Member) header() string {
	var b strings.Builder
	b.WriteString(symbolFor(m.visibility))
	switch {
	case m.kind == model.KindConstructorParameter:
		b.WriteString(keywordParam + " ")
	case m.accessor:
		b.WriteString(keywordGet + " ")
	}
	b.WriteString(m.name)
	if m.kind == model.KindMethod {
		b.WriteString("(" + strings.Join(m.params, ", ") + ")")
	}
	if m.typ != "" {
		b.WriteString(": " + m.typ)
	}
	return b.String()
}
