package main

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/extractclass/internal/discover"
	"github.com/phobologic/extractclass/internal/lang"
	"github.com/phobologic/extractclass/internal/model"
	"github.com/phobologic/extractclass/internal/parse"
	"github.com/phobologic/extractclass/internal/typescript"
)

// scanConcurrent lists the classes declared in files, in file order.
// Classes the model cannot represent are reported as warnings and skipped.
func (a *app) scanConcurrent(root string, files []discover.FileEntry) []model.ClassInfo {
	type result struct {
		index   int
		classes []model.ClassInfo
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	var stderrMu sync.Mutex
	warn := func(format string, args ...any) {
		stderrMu.Lock()
		defer stderrMu.Unlock()
		a.warnf(format, args...)
	}

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser
			parsers := make(map[string]*parserPair)

			for idx := range work {
				f := files[idx]
				pp, ok := parsers[f.Language]
				if !ok {
					l := lang.Languages[f.Language]
					q, err := l.GetTagQuery()
					if err != nil {
						warn("failed to compile query for %s: %v", f.Language, err)
						continue
					}
					pp = &parserPair{lang: l, parser: l.NewParser(), query: q}
					parsers[f.Language] = pp
				}

				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					warn("failed to read %s: %v", f.Path, err)
					continue
				}

				var classes []model.ClassInfo
				for _, tag := range parse.Classes(parse.ExtractTags(pp.lang, pp.parser, pp.query, source, f.Path)) {
					c, err := typescript.ParseWith(pp.lang, pp.parser, source, tag.Name)
					if err != nil {
						warn("%s: %v", f.Path, err)
						continue
					}
					classes = append(classes, model.ClassInfo{
						File:    f.Path,
						Name:    tag.Name,
						Line:    tag.Line,
						Members: len(c.Members()),
					})
				}
				results <- result{index: idx, classes: classes}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([][]model.ClassInfo, len(files))
	for r := range results {
		indexed[r.index] = r.classes
	}

	var classes []model.ClassInfo
	for _, cs := range indexed {
		classes = append(classes, cs...)
	}
	return classes
}

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}
