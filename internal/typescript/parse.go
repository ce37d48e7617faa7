package typescript

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/extractclass/internal/lang"
	"github.com/phobologic/extractclass/internal/model"
)

// Parse finds the class declaration named className in source and builds
// its model. l must be the typescript or tsx language.
func Parse(l *lang.Language, source []byte, className string) (*Class, error) {
	return ParseWith(l, l.NewParser(), source, className)
}

// ParseWith is Parse with a caller-owned parser set to l.
func ParseWith(l *lang.Language, parser *sitter.Parser, source []byte, className string) (*Class, error) {
	if _, err := l.GetTagQuery(); err != nil {
		return nil, err
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	node := findClass(tree.RootNode(), source, className)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrClassNotFound, className)
	}
	return build(l, node, source)
}

func findClass(n *sitter.Node, source []byte, name string) *sitter.Node {
	switch n.Type() {
	case "class_declaration", "abstract_class_declaration":
		if id := n.ChildByFieldName("name"); id != nil && lang.NodeText(id, source) == name {
			return n
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := findClass(n.NamedChild(i), source, name); found != nil {
			return found
		}
	}
	return nil
}

func build(l *lang.Language, node *sitter.Node, source []byte) (*Class, error) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return nil, fmt.Errorf("%w: class declaration without name or body", model.ErrUnsupported)
	}

	start := int(node.StartByte())
	base := lineIndent(source, start)
	c := &Class{
		lang:         l,
		name:         lang.NodeText(nameNode, source),
		headerBefore: dedent(string(source[start:nameNode.StartByte()]), base),
		headerAfter:  strings.TrimRight(dedent(string(source[nameNode.EndByte():body.StartByte()]), base), " \t\r\n"),
		indent:       "\t",
		start:        start,
		end:          int(node.EndByte()),
		baseIndent:   base,
	}

	b := &builder{class: c, source: source}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if err := b.add(body.NamedChild(i)); err != nil {
			return nil, err
		}
	}
	b.flush()
	return c, nil
}

// builder accumulates class body items. Comments and decorators are held
// until the next item and attached to it.
type builder struct {
	class      *Class
	source     []byte
	leading    string
	leadingEnd uint32
	indentSet  bool
	ctors      int
}

func (b *builder) add(n *sitter.Node) error {
	indent := lineIndent(b.source, int(n.StartByte()))
	if !b.indentSet {
		b.indentSet = true
		if rel := strings.TrimPrefix(indent, b.class.baseIndent); rel != "" {
			b.class.indent = rel
		}
	}

	switch n.Type() {
	case "comment", "decorator":
		b.hold(n, indent)
		return nil
	case "method_definition":
		return b.method(n, indent)
	case "public_field_definition":
		return b.field(n, indent)
	case "method_signature", "abstract_method_signature":
		if id := n.ChildByFieldName("name"); id != nil && b.text(id) == "constructor" {
			if err := b.countConstructor(); err != nil {
				return err
			}
		}
	}
	b.opaque(n, indent)
	return nil
}

func (b *builder) method(n *sitter.Node, indent string) error {
	nameNode := n.ChildByFieldName("name")
	if nameNode != nil && b.text(nameNode) == "constructor" {
		return b.constructor(n, indent)
	}
	body := n.ChildByFieldName("body")
	if nameNode == nil || body == nil || nameNode.Type() != "property_identifier" || hasChild(n, "static") {
		b.opaque(n, indent)
		return nil
	}

	m := &Member{
		class:   b.class,
		kind:    model.KindMethod,
		name:    b.text(nameNode),
		leading: b.take(n),
		body:    dedent(b.text(body), indent),
		params:  b.paramNames(n.ChildByFieldName("parameters")),
	}
	switch {
	case hasChild(n, "get"):
		m.accessor = "get"
	case hasChild(n, "set"):
		m.accessor = "set"
	}
	b.modifiers(m, n, body.StartByte(), indent)
	return b.addMember(m)
}

func (b *builder) field(n *sitter.Node, indent string) error {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil || nameNode.Type() != "property_identifier" || hasChild(n, "static") {
		b.opaque(n, indent)
		return nil
	}

	m := &Member{
		class:   b.class,
		kind:    model.KindField,
		name:    b.text(nameNode),
		leading: b.take(n),
	}
	if t := n.ChildByFieldName("type"); t != nil {
		m.typeText = lang.CollapseWhitespace(strings.TrimPrefix(b.text(t), ":"))
	}
	b.modifiers(m, n, n.EndByte(), indent)
	return b.addMember(m)
}

func (b *builder) constructor(n *sitter.Node, indent string) error {
	if err := b.countConstructor(); err != nil {
		return err
	}
	params := n.ChildByFieldName("parameters")
	if params == nil {
		b.opaque(n, indent)
		return nil
	}

	k := &constructor{
		leading: b.take(n),
		before:  dedent(string(b.source[n.StartByte():params.StartByte()]), indent),
		after:   dedent(string(b.source[params.EndByte():n.EndByte()]), indent),
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() == "comment" {
			continue
		}
		pattern := p.ChildByFieldName("pattern")
		if pattern == nil || !isParameterProperty(p) {
			s := slot{text: lang.CollapseWhitespace(b.text(p))}
			if pattern != nil && (pattern.Type() == "identifier" || pattern.Type() == "rest_pattern") {
				s.name = lang.CollapseWhitespace(b.text(pattern))
			}
			k.slots = append(k.slots, s)
			continue
		}
		m := &Member{
			class: b.class,
			kind:  model.KindConstructorParameter,
			name:  b.text(pattern),
		}
		b.modifiers(m, p, p.EndByte(), indent)
		m.head = lang.CollapseWhitespace(m.head)
		if err := b.addMember(m); err != nil {
			return err
		}
		k.slots = append(k.slots, slot{member: m})
	}
	b.class.items = append(b.class.items, k)
	return nil
}

func (b *builder) countConstructor() error {
	b.ctors++
	if b.ctors > 1 {
		return fmt.Errorf("%w: class %s declares more than one constructor", model.ErrUnsupported, b.class.name)
	}
	return nil
}

func (b *builder) addMember(m *Member) error {
	if existing := b.class.lookup(m.name); existing != nil {
		if m.accessor != "" || existing.accessor != "" {
			return fmt.Errorf("%w: get/set accessor pair %q in class %s", model.ErrUnsupported, m.name, b.class.name)
		}
		return fmt.Errorf("%w: %q in class %s", model.ErrDuplicateMember, m.name, b.class.name)
	}
	if m.kind != model.KindConstructorParameter {
		b.class.items = append(b.class.items, m)
	}
	return nil
}

// modifiers splits the text of n up to end around its accessibility
// modifier.
func (b *builder) modifiers(m *Member, n *sitter.Node, end uint32, indent string) {
	mod := childOfType(n, "accessibility_modifier")
	if mod == nil {
		m.head = strings.TrimRight(dedent(string(b.source[n.StartByte():end]), indent), " \t\r\n")
		return
	}
	m.prefix = dedent(string(b.source[n.StartByte():mod.StartByte()]), indent)
	m.scope = b.text(mod)
	rest := strings.Trim(string(b.source[mod.EndByte():end]), " \t\r\n")
	m.head = dedent(rest, indent)
}

func (b *builder) paramNames(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		pattern := params.NamedChild(i).ChildByFieldName("pattern")
		if pattern == nil || pattern.Type() == "this" {
			continue
		}
		names = append(names, lang.CollapseWhitespace(b.text(pattern)))
	}
	return names
}

func (b *builder) opaque(n *sitter.Node, indent string) {
	end := n.EndByte()
	if next := n.NextSibling(); next != nil && next.Type() == ";" {
		end = next.EndByte()
	}
	text := b.take(n) + dedent(string(b.source[n.StartByte():end]), indent)
	b.class.items = append(b.class.items, &opaque{text: text})
}

func (b *builder) hold(n *sitter.Node, indent string) {
	text := dedent(b.text(n), indent)
	if b.leading != "" {
		text = b.leading + b.separator(n) + text
	}
	b.leading = text
	b.leadingEnd = n.EndByte()
}

// take returns the held comments and decorators, to be placed before n.
func (b *builder) take(n *sitter.Node) string {
	if b.leading == "" {
		return ""
	}
	text := b.leading + b.separator(n)
	b.leading = ""
	return text
}

func (b *builder) separator(n *sitter.Node) string {
	if strings.Contains(string(b.source[b.leadingEnd:n.StartByte()]), "\n") {
		return "\n"
	}
	return " "
}

func (b *builder) flush() {
	if b.leading != "" {
		b.class.items = append(b.class.items, &opaque{text: b.leading})
		b.leading = ""
	}
}

func (b *builder) text(n *sitter.Node) string {
	return lang.NodeText(n, b.source)
}

func isParameterProperty(p *sitter.Node) bool {
	if p.Type() != "required_parameter" && p.Type() != "optional_parameter" {
		return false
	}
	return hasChild(p, "accessibility_modifier") || hasChild(p, "readonly")
}

func hasChild(n *sitter.Node, typ string) bool {
	return childOfType(n, typ) != nil
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
