// Package model defines the class/member contract shared by the extraction
// engine and the language adapters, plus the tag and report types used by
// the command-line front end.
package model

// TagKind indicates whether a tag is a definition or a reference.
type TagKind string

const (
	Definition TagKind = "def"
	Reference  TagKind = "ref"
)

// SymbolKind indicates the syntactic kind of a symbol.
type SymbolKind string

const (
	SymbolClass  SymbolKind = "class"
	SymbolMember SymbolKind = "member"
)

// Tag represents a single symbol occurrence extracted from source code.
// Member references are self-qualified accesses such as this.name.
type Tag struct {
	Name       string
	Kind       TagKind
	SymbolKind SymbolKind
	Line       int
	File       string
	StartByte  int
	EndByte    int
}

// ClassInfo summarises a class declaration found while scanning a tree.
type ClassInfo struct {
	File    string
	Name    string
	Line    int
	Members int
}

// MemberInfo is the read-only view of a member used to build pick-lists.
type MemberInfo struct {
	Name         string
	Kind         MemberKind
	Visibility   Visibility
	Dependencies []string
}

// ClassReport is a class together with its extractable members, ready for
// serialization.
type ClassReport struct {
	File    string
	Class   string
	Members []MemberInfo
}
