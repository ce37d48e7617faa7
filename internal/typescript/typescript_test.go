package typescript

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/extractclass/internal/lang"
	"github.com/phobologic/extractclass/internal/model"
	"github.com/phobologic/extractclass/internal/refactor"
)

func parseTS(t *testing.T, source, name string) *Class {
	t.Helper()
	c, err := Parse(lang.Languages["typescript"], []byte(source), name)
	require.NoError(t, err)
	return c
}

func extract(t *testing.T, source *Class, names ...string) model.Class {
	t.Helper()
	extracted, err := refactor.ExtractClass(source, "Extracted", names)
	require.NoError(t, err)
	return extracted
}

const depsSource = `class Source {
	private count: number = 0;

	constructor(private readonly prop: number, other: string) {}

	a(x: number, y: number) {
		return this.b(x) + this.count + other.count;
	}

	b(x: number) {
		return this.prop * x;
	}

	static make() {
		return new Source(1, "");
	}
}`

func TestParseMembers(t *testing.T) {
	t.Parallel()

	c := parseTS(t, depsSource, "Source")
	assert.Equal(t, "Source", c.Name())

	var infos []model.MemberInfo
	for _, m := range c.Members() {
		infos = append(infos, model.Info(m))
	}
	assert.Equal(t, []model.MemberInfo{
		{Name: "count", Kind: model.KindField, Visibility: model.Private},
		{Name: "prop", Kind: model.KindConstructorParameter, Visibility: model.Private},
		{Name: "a", Kind: model.KindMethod, Visibility: model.Public, Dependencies: []string{"b", "count"}},
		{Name: "b", Kind: model.KindMethod, Visibility: model.Public, Dependencies: []string{"prop"}},
	}, infos)
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, source := range []string{
		depsSource,
		`class Empty {}`,
		`abstract class Shape<T> extends Base implements Drawable {
	// counts things
	@Input() private count = 0;

	[key: string]: unknown;

	abstract area(): number;

	static create(): Shape<number> {
		return null;
	}

	/** Doubles. */
	protected double(): number {
		return this.count * 2;
	}

	#secret = 1;
}`,
	} {
		name := "Source"
		switch {
		case source == `class Empty {}`:
			name = "Empty"
		case source != depsSource:
			name = "Shape"
		}
		c := parseTS(t, source, name)
		assert.Equal(t, source, c.Serialize())
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		class  string
		want   error
	}{
		{"missing class", `class A {}`, "B", model.ErrClassNotFound},
		{"constructor overloads", "class A {\n\tconstructor(a: string);\n\tconstructor(a: any) {}\n}", "A", model.ErrUnsupported},
		{"accessor pair", "class A {\n\tget v() { return 1; }\n\tset v(x: number) {}\n}", "A", model.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(lang.Languages["typescript"], []byte(tt.source), tt.class)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseNestedClass(t *testing.T) {
	t.Parallel()

	source := "namespace N {\n\texport class Inner {\n\t\tf() {}\n\t}\n}\n"
	c := parseTS(t, source, "Inner")

	start, end := c.Span()
	assert.Equal(t, "class Inner {\n\t\tf() {}\n\t}", source[start:end])
	assert.Equal(t, "class Inner {\n\tf() {}\n}", c.Serialize())
}

func TestExtractScenarioA(t *testing.T) {
	t.Parallel()

	source := parseTS(t, `class Source {
	a(): void {}

	b(): void {}
}`, "Source")

	extracted := extract(t, source, "a")

	assert.Equal(t, `class Source {
	private extracted: Extracted = new Extracted();

	a(): void {
		return this.extracted.a();
	}

	b(): void {}
}`, source.Serialize())
	assert.Equal(t, `class Extracted {
	a(): void {}
}`, extracted.Serialize())
}

func TestExtractScenarioB(t *testing.T) {
	t.Parallel()

	source := parseTS(t, `class Source {
	a() {
		this.b();
	}

	private b() {}
}`, "Source")

	extracted := extract(t, source, "a")

	assert.Equal(t, `class Source {
	private extracted: Extracted = new Extracted();

	a() {
		return this.extracted.a();
	}
}`, source.Serialize())
	assert.Equal(t, `class Extracted {
	a() {
		this.b();
	}

	private b() {}
}`, extracted.Serialize())
}

func TestExtractScenarioC(t *testing.T) {
	t.Parallel()

	source := parseTS(t, `class Source {
	private a() {
		this.b();
	}

	d() {
		this.a();
		this.b();
	}

	private b() {
		this.c();
	}

	private c() {}
}`, "Source")

	extracted := extract(t, source, "a")

	assert.Equal(t, `class Source {
	private extracted: Extracted = new Extracted();

	private a() {
		return this.extracted.a();
	}

	d() {
		this.a();
		this.b();
	}

	private b() {
		return this.extracted.b();
	}
}`, source.Serialize())
	assert.Equal(t, `class Extracted {
	a() {
		this.b();
	}

	b() {
		this.c();
	}

	private c() {}
}`, extracted.Serialize())

	_, err := source.Member("c")
	assert.ErrorIs(t, err, model.ErrMemberNotFound)
	b, err := source.Member("b")
	require.NoError(t, err)
	assert.True(t, b.IsPrivate())
}

func TestExtractPassesConstructorArgumentsInOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ctor   string
		create string
	}{
		{
			name:   "plain parameter first",
			ctor:   "constructor(other: string, private prop: number) {}",
			create: "private extracted: Extracted = new Extracted(this.other, this.prop);",
		},
		{
			name:   "destructured and rest parameters",
			ctor:   "constructor({ x }: Opts, private prop: number, ...rest: string[]) {}",
			create: "private extracted: Extracted = new Extracted(undefined, this.prop, ...this.rest);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := parseTS(t, "class Source {\n\t"+tt.ctor+"\n\n\ta() {\n\t\treturn this.prop;\n\t}\n}", "Source")
			extracted := extract(t, source, "a")

			assert.Contains(t, source.Serialize(), "\t"+tt.create+"\n")
			assert.Contains(t, extracted.Serialize(), "\t"+tt.ctor+"\n")
		})
	}
}

func TestExtractScenarioD(t *testing.T) {
	t.Parallel()

	source := parseTS(t, `class Source {
	constructor(private prop: number) {}

	a() {
		return this.prop;
	}
}`, "Source")

	extracted := extract(t, source, "a")

	assert.Equal(t, `class Source {
	private extracted: Extracted = new Extracted(this.prop);

	constructor(private prop: number) {}

	a() {
		return this.extracted.a();
	}
}`, source.Serialize())
	assert.Equal(t, `class Extracted {
	constructor(private prop: number) {}

	a() {
		return this.prop;
	}
}`, extracted.Serialize())
}

func TestExtractWithParametersAndFields(t *testing.T) {
	t.Parallel()

	source := parseTS(t, depsSource, "Source")
	extracted := extract(t, source, "a")

	assert.Equal(t, `class Source {
	private extracted: Extracted = new Extracted(this.prop, this.other);

	constructor(private readonly prop: number, other: string) {}

	a(x: number, y: number) {
		return this.extracted.a(x, y);
	}

	b(x: number) {
		return this.extracted.b(x);
	}

	static make() {
		return new Source(1, "");
	}
}`, source.Serialize())
	assert.Equal(t, `class Extracted {
	private count: number = 0;

	constructor(private readonly prop: number, other: string) {}

	a(x: number, y: number) {
		return this.b(x) + this.count + other.count;
	}

	b(x: number) {
		return this.prop * x;
	}

	static make() {
		return new Source(1, "");
	}
}`, extracted.Serialize())
}

func TestExtractFieldBecomesAccessor(t *testing.T) {
	t.Parallel()

	source := parseTS(t, `class Source {
	public total: number = 0;

	report() {
		return this.total;
	}
}`, "Source")

	extracted := extract(t, source, "total")

	assert.Equal(t, `class Source {
	private extracted: Extracted = new Extracted();

	get total(): number {
		return this.extracted.total;
	}

	report() {
		return this.total;
	}
}`, source.Serialize())
	assert.Equal(t, `class Extracted {
	total: number = 0;
}`, extracted.Serialize())
}

func TestExtractKeepsIndentUnit(t *testing.T) {
	t.Parallel()

	source := parseTS(t, `class Source {
  a() {
    return this.b();
  }

  private b() {
    return 1;
  }
}`, "Source")

	extracted := extract(t, source, "a")

	assert.Equal(t, `class Source {
  private extracted: Extracted = new Extracted();

  a() {
    return this.extracted.a();
  }
}`, source.Serialize())
	assert.Equal(t, `class Extracted {
  a() {
    return this.b();
  }

  private b() {
    return 1;
  }
}`, extracted.Serialize())
}

func TestDelegateAccessors(t *testing.T) {
	t.Parallel()

	c := parseTS(t, "class A {\n\tget v(): number {\n\t\treturn 1;\n\t}\n\n\tset w(x: number) {}\n}", "A")
	prop, err := c.AddOwnedPrivateProperty(parseTS(t, "class Box {}", "Box"))
	require.NoError(t, err)

	for _, name := range []string{"v", "w"} {
		m, err := c.Member(name)
		require.NoError(t, err)
		m.DelegateTo(prop)
	}

	assert.Equal(t, `class A {
	private box: Box = new Box();

	get v(): number {
		return this.box.v;
	}

	set w(x: number) {
		this.box.w = x;
	}
}`, c.Serialize())
}

func TestAddOwnedPrivatePropertyTaken(t *testing.T) {
	t.Parallel()

	c := parseTS(t, "class A {\n\textracted = 1;\n}", "A")
	_, err := c.AddOwnedPrivateProperty(parseTS(t, "class Extracted {}", "Extracted"))
	assert.ErrorIs(t, err, model.ErrDuplicateMember)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := parseTS(t, depsSource, "Source")
	clone := c.Clone("Copy")

	m, err := clone.Member("b")
	require.NoError(t, err)
	m.Remove()
	p, err := clone.Member("prop")
	require.NoError(t, err)
	p.Remove()

	assert.Equal(t, []string{"count", "prop", "a", "b"}, model.Names(c.Members()))
	assert.Equal(t, []string{"count", "a"}, model.Names(clone.Members()))
	assert.Contains(t, clone.Serialize(), "class Copy {")
	assert.Contains(t, clone.Serialize(), "constructor(other: string) {}")
	assert.Equal(t, depsSource, c.Serialize())
}

func TestDependencyNamesFollowRewrites(t *testing.T) {
	t.Parallel()

	c := parseTS(t, depsSource, "Source")
	a, err := c.Member("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "count"}, a.DependencyNames())

	b, err := c.Member("b")
	require.NoError(t, err)
	b.Remove()
	assert.Equal(t, []string{"count"}, a.DependencyNames())
	assert.Nil(t, b.DependencyNames())
}

func TestSplice(t *testing.T) {
	t.Parallel()

	file := "import { x } from './x';\n\nexport class Source {\n\ta() {}\n}\n\nfunction f() {}\n"
	source := parseTS(t, file, "Source")
	extracted := extract(t, source, "a").(*Class)

	got := string(Splice([]byte(file), source, source, extracted))
	assert.Equal(t, `import { x } from './x';

export class Source {
	private extracted: Extracted = new Extracted();

	a() {
		return this.extracted.a();
	}
}

class Extracted {
	a() {}
}

function f() {}
`, got)
}

func TestParseTSX(t *testing.T) {
	t.Parallel()

	source := "class View {\n\trender() {\n\t\treturn <div>{this.title}</div>;\n\t}\n\n\ttitle = \"x\";\n}\n"
	c, err := Parse(lang.Languages["tsx"], []byte(source), "View")
	require.NoError(t, err)

	m, err := c.Member("render")
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, m.DependencyNames())
}

func TestExtractLeavesNoOrphanedReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		requested []string
	}{
		{"fields and parameters", "class Source {\n\tconstructor(private prop: number) {}\n\n\tprivate count = 0;\n\n\ta() {\n\t\treturn this.prop + this.count;\n\t}\n\n\tb() {\n\t\treturn this.count;\n\t}\n}", []string{"a"}},
		{"private chain", "class Source {\n\tprivate a() {\n\t\tthis.b();\n\t}\n\n\td() {\n\t\tthis.a();\n\t\tthis.b();\n\t}\n\n\tprivate b() {\n\t\tthis.c();\n\t}\n\n\tprivate c() {}\n}", []string{"a"}},
		{"field read elsewhere", "class Source {\n\tprivate total = 0;\n\n\tadd(n: number) {\n\t\tthis.total += n;\n\t}\n\n\treport() {\n\t\treturn this.total;\n\t}\n}", []string{"add"}},
	}

	l := lang.Languages["typescript"]
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := parseTS(t, tt.source, "Source")
			extracted, err := refactor.ExtractClass(source, "Extracted", tt.requested)
			require.NoError(t, err)

			sourceText := source.Serialize()
			for _, name := range memberRefs(l, sourceText) {
				_, err := source.Member(name)
				assert.NoError(t, err, "source references this.%s", name)
			}
			for _, call := range regexp.MustCompile(`this\.extracted\.(\w+)`).FindAllStringSubmatch(sourceText, -1) {
				_, err := extracted.Member(call[1])
				assert.NoError(t, err, "source forwards to %s", call[1])
			}
			for _, name := range memberRefs(l, extracted.Serialize()) {
				_, err := extracted.Member(name)
				assert.NoError(t, err, "extracted references this.%s", name)
			}
		})
	}
}
