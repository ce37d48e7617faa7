package refactor

import "github.com/phobologic/extractclass/internal/model"

// Handle pairs a class with its serializer so callers never work with the
// class model directly.
type Handle struct {
	class model.Class
	opts  []Option
}

// NewHandle wraps c. opts apply to every extraction run through the handle.
func NewHandle(c model.Class, opts ...Option) *Handle {
	return &Handle{class: c, opts: opts}
}

// Name returns the wrapped class name.
func (h *Handle) Name() string {
	return h.class.Name()
}

// Serialize renders the wrapped class with its adapter's serializer.
func (h *Handle) Serialize() string {
	return h.class.Serialize()
}

// ExtractClass extracts members from the wrapped class into a new class
// named newName and returns a handle to it. The wrapped class is rewritten
// in place.
func (h *Handle) ExtractClass(newName string, members []string) (*Handle, error) {
	extracted, err := ExtractClass(h.class, newName, members, h.opts...)
	if err != nil {
		return nil, err
	}
	return NewHandle(extracted, h.opts...), nil
}

// Candidates returns the members that may be picked for extraction.
// Constructor parameters are left out: they move only as dependencies.
func (h *Handle) Candidates() []model.MemberInfo {
	var out []model.MemberInfo
	for _, m := range h.class.Members() {
		if m.Kind() == model.KindConstructorParameter {
			continue
		}
		out = append(out, model.Info(m))
	}
	return out
}
