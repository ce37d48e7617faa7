// Package refactor implements the Extract Class transformation over the
// class model.
package refactor

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phobologic/extractclass/internal/graph"
	"github.com/phobologic/extractclass/internal/model"
)

// Option configures an extraction.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes phase diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// ExtractClass moves the requested members of source, plus everything they
// transitively depend on, into a new class named newName and returns it.
//
// source is rewritten in place: it gains a private property holding an
// instance of the new class, the moved members forward to that property,
// and moved private members nothing in source uses any more are removed.
// A failure part-way through leaves source partially rewritten; callers
// that need atomicity should operate on a clone.
func ExtractClass(source model.Class, newName string, requested []string, opts ...Option) (model.Class, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With("source", source.Name(), "target", newName)

	// Delegation must precede pruning: it drops the old dependency edges
	// of the moved members.
	extracted, closure, err := cloneClosure(source, newName, requested)
	if err != nil {
		return nil, err
	}
	log.Debug("pruned clone to closure", "requested", requested, "closure", closure)

	prop, err := source.AddOwnedPrivateProperty(extracted)
	if err != nil {
		return nil, fmt.Errorf("adding delegate property to %s: %w", source.Name(), err)
	}
	log.Debug("added delegate property", "property", prop.Name())

	if err := delegateMoved(source, extracted, prop); err != nil {
		return nil, err
	}

	removed := pruneUnused(source, closure, log)
	log.Debug("pruned unused members", "removed", removed)

	promoted := promote(source, extracted, requested)
	log.Debug("promoted members", "public", promoted)

	return extracted, nil
}

// cloneClosure clones source as newName and drops every member outside the
// closure of requested.
func cloneClosure(source model.Class, newName string, requested []string) (model.Class, map[string]struct{}, error) {
	extracted := source.Clone(newName)

	names, err := graph.Closure(extracted, requested)
	if err != nil {
		return nil, nil, err
	}
	closure := make(map[string]struct{}, len(names))
	for _, n := range names {
		closure[n] = struct{}{}
	}

	for _, m := range extracted.Members() {
		if _, keep := closure[m.Name()]; !keep {
			m.Remove()
		}
	}
	return extracted, closure, nil
}

func delegateMoved(source, extracted model.Class, prop model.Member) error {
	for _, moved := range extracted.Members() {
		m, err := source.Member(moved.Name())
		if err != nil {
			return fmt.Errorf("delegating %s: %w", moved.Name(), err)
		}
		m.DelegateTo(prop)
	}
	return nil
}

// pruneUnused removes moved private members of source that no remaining
// member depends on. Removing a member can orphan another, so it repeats
// until a round removes nothing.
func pruneUnused(source model.Class, closure map[string]struct{}, log *slog.Logger) []string {
	var removed []string
	for round := 1; ; round++ {
		unused := unusedMoved(source, closure)
		if len(unused) == 0 {
			return removed
		}
		for _, m := range unused {
			m.Remove()
			removed = append(removed, m.Name())
		}
		log.Debug("removal round", "round", round, "members", model.Names(unused))
	}
}

func unusedMoved(source model.Class, closure map[string]struct{}) []model.Member {
	members := source.Members()
	used := make(map[string]struct{})
	for _, m := range members {
		for _, dep := range m.DependencyNames() {
			used[dep] = struct{}{}
		}
	}

	var unused []model.Member
	for _, m := range members {
		if !m.IsPrivate() {
			continue
		}
		if _, moved := closure[m.Name()]; !moved {
			continue
		}
		if _, ok := used[m.Name()]; ok {
			continue
		}
		unused = append(unused, m)
	}
	return unused
}

// promote makes public every extracted member that was requested or that
// source still calls through the delegate property.
func promote(source, extracted model.Class, requested []string) []string {
	public := make(map[string]struct{}, len(requested))
	for _, n := range requested {
		public[n] = struct{}{}
	}
	for _, m := range source.Members() {
		public[m.Name()] = struct{}{}
	}

	var promoted []string
	for _, m := range extracted.Members() {
		if _, ok := public[m.Name()]; ok {
			m.MarkAsPublic()
			promoted = append(promoted, m.Name())
		}
	}
	return promoted
}
