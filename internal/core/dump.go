package core

import (
	"fmt"
	"io"
	"strings"
)

// DumpTree writes a description of the tree: one line per node with its kind, its strategy
// and its position. The slots of built scopes are listed under modules and functions.
func DumpTree(w io.Writer, root Node) error {
	var writeErr error

	Walk(root, func(node Node, depth int) bool {
		if writeErr != nil {
			return false
		}
		base := node.Base()
		indent := strings.Repeat("  ", depth)

		line := fmt.Sprintf("%s%s [%s]", indent, node.Kind(), base.Strategy())
		switch n := node.(type) {
		case *Name:
			line += fmt.Sprintf(" %s (%s)", n.name, n.use)
		case *Param:
			line += " " + n.name
		case *BinaryOp:
			line += " " + n.op.String()
		case *CompoundAssign:
			line += " " + n.op.String() + "="
		case *Literal:
			line += " " + Stringify(n.value)
		}
		if base.IsTail() {
			line += " tail"
		}
		if base.Position.IsKnown() {
			line += " " + base.Position.String()
		}

		var info *ScopeInfo
		switch n := node.(type) {
		case *Module:
			info = n.info
		case *FunctionLiteral:
			info = n.ScopeInfo()
		}
		if info != nil {
			line += fmt.Sprintf("\n%s  slots: %s", indent, strings.Join(info.SortedNames(), ", "))
		}

		_, writeErr = fmt.Fprintln(w, line)
		return true
	})

	return writeErr
}
