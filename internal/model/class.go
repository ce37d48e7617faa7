package model

// MemberKind is the syntactic kind of a class member.
type MemberKind string

const (
	KindField                MemberKind = "field"
	KindMethod               MemberKind = "method"
	KindConstructorParameter MemberKind = "constructor-parameter"
)

// Visibility is the access level of a member.
type Visibility string

const (
	Public    Visibility = "public"
	Protected Visibility = "protected"
	Private   Visibility = "private"
)

// Class is a named, ordered collection of uniquely named members.
//
// Implementations are not safe for concurrent use; callers serialize
// access to a single Class.
type Class interface {
	Name() string

	// Members returns the current members in insertion order.
	Members() []Member

	// Member returns the named member or an error wrapping ErrMemberNotFound.
	Member(name string) (Member, error)

	// Clone returns a deep copy renamed to name. Mutating either class
	// never affects the other.
	Clone(name string) Class

	// AddOwnedPrivateProperty inserts, as the first member, a private field
	// named PropertyName(of.Name()) holding a new instance of of. The
	// instance is constructed with the receiver's members named after the
	// constructor parameters retained in of.
	AddOwnedPrivateProperty(of Class) (Member, error)

	Serialize() string
}

// Member is a field, method or constructor parameter owned by one Class.
type Member interface {
	Name() string
	Kind() MemberKind
	Visibility() Visibility
	IsPrivate() bool

	// DependencyNames lists the members of the owning class referenced by
	// this member's current body or initializer. It is derived from the
	// member's current text on every call.
	DependencyNames() []string

	// DelegateTo rewrites the member to forward to the same-named member
	// of the instance held by target. Constructor parameters are left
	// untouched.
	DelegateTo(target Member)

	// MarkAsPublic drops any private or protected modifier. Constructor
	// parameters are left untouched.
	MarkAsPublic()

	// Remove detaches the member from its owning class.
	Remove()
}

// Info returns the read-only view of m.
func Info(m Member) MemberInfo {
	return MemberInfo{
		Name:         m.Name(),
		Kind:         m.Kind(),
		Visibility:   m.Visibility(),
		Dependencies: m.DependencyNames(),
	}
}

// Names returns the names of members in order.
func Names(members []Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name()
	}
	return names
}
