// Package parse extracts tags from source files using tree-sitter.
package parse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/extractclass/internal/lang"
	"github.com/phobologic/extractclass/internal/model"
)

var captureMap = map[string]struct {
	Kind       model.TagKind
	SymbolKind model.SymbolKind
}{
	"definition.class": {model.Definition, model.SymbolClass},
	"reference.member": {model.Reference, model.SymbolMember},
}

// ExtractTags parses a source file and returns class definition tags and
// self-qualified member reference tags, in source order.
// The parser must be created for the correct language.
// filePath is used only for Tag.File and should be the repo-relative path.
func ExtractTags(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) []model.Tag {
	if len(source) == 0 {
		return nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var tags []model.Tag

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		// Find the @name capture and the pattern capture
		var nameNode *sitter.Node
		var captureName string
		var defNode *sitter.Node

		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			if cname == "name" {
				nameNode = c.Node
			} else if _, ok := captureMap[cname]; ok {
				captureName = cname
				defNode = c.Node
			}
		}

		if nameNode == nil || captureName == "" || defNode == nil {
			continue
		}

		cm := captureMap[captureName]
		tags = append(tags, model.Tag{
			Name:       lang.NodeText(nameNode, source),
			Kind:       cm.Kind,
			SymbolKind: cm.SymbolKind,
			Line:       int(nameNode.StartPoint().Row) + 1,
			File:       filePath,
			StartByte:  int(defNode.StartByte()),
			EndByte:    int(defNode.EndByte()),
		})
	}

	return tags
}

// Classes returns the class definition tags of tags.
func Classes(tags []model.Tag) []model.Tag {
	return filter(tags, model.Definition, model.SymbolClass)
}

// MemberReferences returns the distinct names referenced through this.name,
// in order of first appearance.
func MemberReferences(tags []model.Tag) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, t := range filter(tags, model.Reference, model.SymbolMember) {
		if _, dup := seen[t.Name]; dup {
			continue
		}
		seen[t.Name] = struct{}{}
		names = append(names, t.Name)
	}
	return names
}

func filter(tags []model.Tag, kind model.TagKind, symbolKind model.SymbolKind) []model.Tag {
	var out []model.Tag
	for _, t := range tags {
		if t.Kind == kind && t.SymbolKind == symbolKind {
			out = append(out, t)
		}
	}
	return out
}
