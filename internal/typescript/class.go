// Package typescript implements the class model over TypeScript class
// declarations parsed with tree-sitter.
package typescript

import (
	"fmt"
	"strings"

	"github.com/phobologic/extractclass/internal/lang"
	"github.com/phobologic/extractclass/internal/model"
)

// Class is a TypeScript class declaration.
//
// Body items the model has no member for (static members, index and
// abstract signatures, #private names, comments with nothing after them)
// are carried verbatim so serialization reproduces them.
type Class struct {
	lang         *lang.Language
	name         string
	headerBefore string
	headerAfter  string
	items        []item
	indent       string

	// byte span of the declaration in the parsed source, and the
	// indentation of the line it starts on
	start, end int
	baseIndent string
}

var _ model.Class = (*Class)(nil)

// item is one entry of a class body.
type item interface {
	render() string
}

// opaque is body text carried through unchanged.
type opaque struct {
	text string
}

func (o *opaque) render() string { return o.text }

// constructor holds the constructor declaration. Parameter properties are
// members; other parameters are kept as text.
type constructor struct {
	leading string
	before  string
	slots   []slot
	after   string
}

// slot is one constructor parameter. name is the bound identifier of a
// plain parameter, empty for destructuring patterns.
type slot struct {
	text   string
	name   string
	member *Member
}

func (k *constructor) render() string {
	var params []string
	for _, s := range k.slots {
		switch {
		case s.member == nil:
			params = append(params, s.text)
		case !s.member.removed:
			params = append(params, lang.CollapseWhitespace(s.member.text()))
		}
	}
	return k.leading + k.before + "(" + strings.Join(params, ", ") + ")" + k.after
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Language returns the language the class was parsed with.
func (c *Class) Language() *lang.Language {
	return c.lang
}

// Span returns the byte range of the declaration in the source it was
// parsed from. Clones report the span of their original.
func (c *Class) Span() (start, end int) {
	return c.start, c.end
}

// Members returns the instance members in declaration order.
func (c *Class) Members() []model.Member {
	var out []model.Member
	for _, m := range c.members() {
		out = append(out, m)
	}
	return out
}

func (c *Class) members() []*Member {
	var out []*Member
	for _, it := range c.items {
		switch it := it.(type) {
		case *Member:
			if !it.removed {
				out = append(out, it)
			}
		case *constructor:
			for _, s := range it.slots {
				if s.member != nil && !s.member.removed {
					out = append(out, s.member)
				}
			}
		}
	}
	return out
}

// Member returns the named instance member.
func (c *Class) Member(name string) (model.Member, error) {
	m := c.lookup(name)
	if m == nil {
		return nil, fmt.Errorf("%w: %q in class %s", model.ErrMemberNotFound, name, c.name)
	}
	return m, nil
}

func (c *Class) lookup(name string) *Member {
	for _, m := range c.members() {
		if m.name == name {
			return m
		}
	}
	return nil
}

// Clone returns an independent copy of the class named name.
func (c *Class) Clone(name string) model.Class {
	clone := &Class{
		lang:         c.lang,
		name:         name,
		headerBefore: c.headerBefore,
		headerAfter:  c.headerAfter,
		indent:       c.indent,
		start:        c.start,
		end:          c.end,
		baseIndent:   c.baseIndent,
	}
	for _, it := range c.items {
		switch it := it.(type) {
		case *Member:
			if it.removed {
				continue
			}
			clone.items = append(clone.items, it.copyTo(clone))
		case *constructor:
			k := *it
			k.slots = make([]slot, 0, len(it.slots))
			for _, s := range it.slots {
				if s.member != nil {
					if s.member.removed {
						continue
					}
					s.member = s.member.copyTo(clone)
				}
				k.slots = append(k.slots, s)
			}
			clone.items = append(clone.items, &k)
		default:
			clone.items = append(clone.items, it)
		}
	}
	return clone
}

// AddOwnedPrivateProperty inserts, as the first body item, a private field
// initialized with a new instance of of.
func (c *Class) AddOwnedPrivateProperty(of model.Class) (model.Member, error) {
	name := model.PropertyName(of.Name())
	if c.lookup(name) != nil {
		return nil, fmt.Errorf("%w: %q in class %s", model.ErrDuplicateMember, name, c.name)
	}

	var args []string
	if oc, ok := of.(*Class); ok {
		args = oc.constructorArgs()
	} else {
		for _, m := range of.Members() {
			if m.Kind() == model.KindConstructorParameter {
				args = append(args, "this."+m.Name())
			}
		}
	}

	prop := &Member{
		class:    c,
		kind:     model.KindField,
		name:     name,
		scope:    "private",
		head:     fmt.Sprintf("%s: %s = new %s(%s)", name, of.Name(), of.Name(), strings.Join(args, ", ")),
		typeText: of.Name(),
	}
	c.items = append([]item{prop}, c.items...)
	return prop, nil
}

// constructorArgs returns one argument per retained constructor parameter,
// in declaration order, each read from the same-named member.
func (c *Class) constructorArgs() []string {
	var args []string
	for _, it := range c.items {
		k, ok := it.(*constructor)
		if !ok {
			continue
		}
		for _, s := range k.slots {
			switch {
			case s.member != nil:
				if !s.member.removed {
					args = append(args, "this."+s.member.name)
				}
			case strings.HasPrefix(s.name, "..."):
				args = append(args, "...this."+strings.TrimPrefix(s.name, "..."))
			case s.name != "":
				args = append(args, "this."+s.name)
			default:
				args = append(args, "undefined")
			}
		}
	}
	return args
}

// Serialize renders the class declaration. The first line is not indented;
// following lines are relative to the declaration's own indentation.
func (c *Class) Serialize() string {
	var b strings.Builder
	b.WriteString(c.headerBefore)
	b.WriteString(c.name)
	b.WriteString(c.headerAfter)
	b.WriteString(" {")

	var rendered []string
	for _, it := range c.items {
		if m, ok := it.(*Member); ok && m.removed {
			continue
		}
		rendered = append(rendered, indentLines(it.render(), c.indent))
	}
	if len(rendered) == 0 {
		b.WriteString("}")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(strings.Join(rendered, "\n\n"))
	b.WriteString("\n}")
	return b.String()
}

// Splice replaces the declaration of c in source with the serialized
// classes, separated by a blank line and indented to the declaration's
// original position.
func Splice(source []byte, c *Class, classes ...*Class) []byte {
	texts := make([]string, len(classes))
	for i, cls := range classes {
		texts[i] = cls.Serialize()
	}
	replacement := indentContinuation(strings.Join(texts, "\n\n"), c.baseIndent)

	var out []byte
	out = append(out, source[:c.start]...)
	out = append(out, replacement...)
	out = append(out, source[c.end:]...)
	return out
}
