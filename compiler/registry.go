package compiler

// DeclID is a stable handle for a named source entity, issued by the
// declaration phase. The context compares handles only; it never inspects
// names or AST nodes.
type DeclID uint32

// Category classifies a registered declaration.
type Category byte

const (
	CategoryNone Category = iota
	CategoryMagic
	CategoryStateVariable
	CategoryLocalVariable
	CategoryFunction
)

// String implements the Stringer interface.
func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "unregistered"
	case CategoryMagic:
		return "magic global"
	case CategoryStateVariable:
		return "state variable"
	case CategoryLocalVariable:
		return "local variable"
	case CategoryFunction:
		return "function"
	default:
		return "invalid category"
	}
}

// registry maps declarations to their category. A declaration belongs to at
// most one category for the lifetime of the context.
type registry struct {
	categories map[DeclID]Category
}

func newRegistry() registry {
	return registry{categories: make(map[DeclID]Category)}
}

// register records a declaration's category. Re-registration, under the same
// category or another, is fatal.
func (r registry) register(decl DeclID, cat Category) {
	if prev, ok := r.categories[decl]; ok {
		ice("declaration %d already registered as %s, cannot register as %s", decl, prev, cat)
	}
	r.categories[decl] = cat
}

// ensure records the category if the declaration is unknown and verifies it
// otherwise. Local variables go through here: the same declaration may rebind
// in a later frame, but never under a different category.
func (r registry) ensure(decl DeclID, cat Category) {
	if prev, ok := r.categories[decl]; ok {
		if prev != cat {
			ice("declaration %d already registered as %s, cannot register as %s", decl, prev, cat)
		}
		return
	}
	r.categories[decl] = cat
}

// categoryOf returns the declaration's category, CategoryNone if unknown.
func (r registry) categoryOf(decl DeclID) Category {
	return r.categories[decl]
}

func (r registry) is(decl DeclID, cat Category) bool {
	return r.categories[decl] == cat
}
