package sourcecode

import "fmt"

type NodeSpan struct {
	Start int32 `json:"start"`
	End   int32 `json:"end"` //exclusive
}

// A PositionRange locates a node in the source the tree has been built from.
// The zero value means that the position is unknown.
type PositionRange struct {
	SourceName  string   `json:"sourceName"`
	StartLine   int32    `json:"line"`   //1-indexed
	StartColumn int32    `json:"column"` //1-indexed
	Span        NodeSpan `json:"span"`
}

func (pos PositionRange) IsKnown() bool {
	return pos.StartLine > 0
}

func (pos PositionRange) String() string {
	name := pos.SourceName
	if name == "" {
		name = "<unknown>"
	}
	if !pos.IsKnown() {
		return name + ":"
	}
	return fmt.Sprintf("%s:%d:%d:", name, pos.StartLine, pos.StartColumn)
}
