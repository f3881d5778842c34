package ir

import "fmt"

// RefKind distinguishes the lookup semantics for a block reference.
type RefKind int

const (
	// RefName looks up a custom command by name. Only used for the initial
	// entry point; nested navigation always has concrete ids.
	RefName RefKind = iota
	// RefDecl looks up a declaration by id.
	RefDecl
	// RefBlock looks up an anonymous block by id.
	RefBlock
)

// Ref identifies a block to resolve. Exactly one of Name, Decl, or Block is
// meaningful, selected by Kind.
type Ref struct {
	Kind  RefKind
	Name  string
	Decl  DeclID
	Block BlockID
}

// DeclRef references a declaration by id.
func DeclRef(id DeclID) Ref {
	return Ref{Kind: RefDecl, Decl: id}
}

// BlockRef references an anonymous block by id.
func BlockRef(id BlockID) Ref {
	return Ref{Kind: RefBlock, Block: id}
}

// NameRef references a custom command by name.
func NameRef(name string) Ref {
	return Ref{Kind: RefName, Name: name}
}

// String renders the reference for logs and error messages.
func (r Ref) String() string {
	switch r.Kind {
	case RefDecl:
		return fmt.Sprintf("decl %d", r.Decl)
	case RefBlock:
		return fmt.Sprintf("block %d", r.Block)
	default:
		return r.Name
	}
}
