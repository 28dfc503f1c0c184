package gesturesound

import (
	"fmt"
	"os"
	"strings"
)

// globalDebug enables the extra tree checks below. Set by Stage.SetDebugMode.
var globalDebug bool

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Callers skip this entirely outside debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("gesturesound debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[gesturesound] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[gesturesound] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}

// debugOverlay describes every live cursor: position, bound target and lock
// holder. One line per cursor, ordered by cursor ID.
func debugOverlay(st *Stage) string {
	var b strings.Builder
	cursors := st.ActiveCursors()
	fmt.Fprintf(&b, "cursors: %d\n", len(cursors))
	for _, c := range cursors {
		pos := c.Position()
		target := "-"
		if st.active != nil {
			target = nodeName(st.active.Target(c))
		}
		holder := "-"
		if r := st.input.arb.Holder(c); r != nil {
			holder = recognizerName(r)
		}
		fmt.Fprintf(&b, "#%d (%.0f,%.0f) target=%s lock=%s waiters=%d\n",
			c.ID, pos.X, pos.Y, target, holder, len(st.input.arb.Waiters(c)))
	}
	return b.String()
}

func recognizerName(r Recognizer) string {
	if p, ok := r.(Processor); ok {
		return p.Kind().String()
	}
	return fmt.Sprintf("%T", r)
}
