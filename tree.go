package edittree

// EditTree is a transformation from a form to a lemma. It is implemented
// only by *MatchNode and *ReplaceNode; a nil EditTree is the empty tree,
// which rewrites the empty string to itself. Nil *MatchNode and
// *ReplaceNode values are treated as the empty tree too.
//
// Trees are immutable once built and may be shared between goroutines.
type EditTree interface {
	// String returns the canonical label of the tree (see Serialize).
	String() string

	editTree()
}

// MatchNode keeps a shared middle section of the form and recurses on what
// lies before and after it.
type MatchNode struct {
	// Pre is the number of runes of the form segment before the match.
	Pre int
	// Suf is the number of runes of the form segment after the match.
	Suf int
	// Left rewrites the Pre runes before the match. Nil when both the
	// form head and the lemma head are empty.
	Left EditTree
	// Right rewrites the Suf runes after the match. Nil when both the
	// form tail and the lemma tail are empty.
	Right EditTree
}

// ReplaceNode rewrites a form segment that must be exactly Replacee into
// Replacement.
type ReplaceNode struct {
	Replacee    string
	Replacement string
}

func (*MatchNode) editTree()   {}
func (*ReplaceNode) editTree() {}

func (n *MatchNode) String() string   { return Serialize(n) }
func (n *ReplaceNode) String() string { return Serialize(n) }

// isEmpty reports whether t is the empty tree, including typed nil nodes.
func isEmpty(t EditTree) bool {
	switch t := t.(type) {
	case nil:
		return true
	case *MatchNode:
		return t == nil
	case *ReplaceNode:
		return t == nil
	}
	return false
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b EditTree) bool {
	if isEmpty(a) || isEmpty(b) {
		return isEmpty(a) && isEmpty(b)
	}

	switch a := a.(type) {
	case *MatchNode:
		b, ok := b.(*MatchNode)
		if !ok {
			return false
		}
		return a.Pre == b.Pre && a.Suf == b.Suf &&
			Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *ReplaceNode:
		b, ok := b.(*ReplaceNode)
		if !ok {
			return false
		}
		return a.Replacee == b.Replacee && a.Replacement == b.Replacement
	}
	return false
}

// Depth returns the number of nodes on the longest root-to-leaf path.
// The empty tree has depth 0.
func Depth(t EditTree) int {
	if isEmpty(t) {
		return 0
	}
	switch t := t.(type) {
	case *MatchNode:
		return 1 + max(Depth(t.Left), Depth(t.Right))
	case *ReplaceNode:
		return 1
	}
	return 0
}

// Nodes returns the number of nodes in t.
func Nodes(t EditTree) int {
	if isEmpty(t) {
		return 0
	}
	switch t := t.(type) {
	case *MatchNode:
		return 1 + Nodes(t.Left) + Nodes(t.Right)
	case *ReplaceNode:
		return 1
	}
	return 0
}
