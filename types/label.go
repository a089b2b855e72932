// Package types contains shared types used across the rth matrix harness.
package types

import "strings"

// Label identifies one source-level variant of the library under test.
type Label string

// String implements the Stringer interface for Label
func (l Label) String() string {
	return string(l)
}

// Dir returns the workspace subdirectory name for this label.
func (l Label) Dir() string {
	return strings.ToLower(string(l))
}

// Label enum values. Enumeration order is significant: it fixes the
// iteration order of the matrix.
const (
	LabelBefore Label = "BEFORE"
	LabelAfter  Label = "AFTER"
)

// Labels returns all configuration labels in enumeration order.
func Labels() []Label {
	return []Label{LabelBefore, LabelAfter}
}

// Pair is one cell of the compatibility matrix: a library variant linked
// against a consumer variant.
type Pair struct {
	Library  Label
	Consumer Label
}

// Executable returns the linked binary name for this pair, e.g. "before_after".
func (p Pair) Executable() string {
	return p.Library.Dir() + "_" + p.Consumer.Dir()
}

// String implements the Stringer interface for Pair
func (p Pair) String() string {
	return p.Library.Dir() + "×" + p.Consumer.Dir()
}

// IsBackwardDeployment reports whether the pair links a newer consumer
// against the older library.
func (p Pair) IsBackwardDeployment() bool {
	return p.Library == LabelBefore && p.Consumer == LabelAfter
}

// Pairs returns the library×consumer combinations in enumeration order.
// When skipBackwardDeployment is set, the (BEFORE library, AFTER consumer)
// pair is omitted. Both the link and the execute phases must operate on the
// same slice so they agree on the retained set.
func Pairs(skipBackwardDeployment bool) []Pair {
	var pairs []Pair
	for _, lib := range Labels() {
		for _, consumer := range Labels() {
			p := Pair{Library: lib, Consumer: consumer}
			if skipBackwardDeployment && p.IsBackwardDeployment() {
				continue
			}
			pairs = append(pairs, p)
		}
	}
	return pairs
}
