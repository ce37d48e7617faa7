package typescript

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phobologic/extractclass/internal/lang"
	"github.com/phobologic/extractclass/internal/parse"
)

const refCacheSize = 4096

// refCache memoises this-member references by language and fragment text.
// Entries are keyed by text, so a rewritten member misses and is reparsed.
var refCache, _ = lru.New[string, []string](refCacheSize)

// memberRefs returns the distinct names referenced as this.name in
// fragment. The returned slice is shared and must not be modified.
func memberRefs(l *lang.Language, fragment string) []string {
	key := l.Name + "\x00" + fragment
	if refs, ok := refCache.Get(key); ok {
		return refs
	}

	query, err := l.GetTagQuery()
	if err != nil {
		return nil
	}
	refs := parse.MemberReferences(parse.ExtractTags(l, l.NewParser(), query, []byte(fragment), ""))
	refCache.Add(key, refs)
	return refs
}
