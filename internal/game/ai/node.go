// Package ai implements the hybrid behavior-tree / utility decision engine
// that drives non-player characters. The tree supplies priority structure
// (survival > social > schedule > emotion > general); utility scoring picks
// an action within each priority level.
package ai

import (
	"github.com/finishlast/officesim/internal/game/action"
	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/office"
)

// Decision is the engine's output: a movement target, an action to start,
// or both. A move-plus-action decision means "walk there, then do this".
type Decision struct {
	MoveTo *office.Point
	Action *catalog.Action
}

// Node is one behavior-tree node. Evaluate returns the produced decision
// (may be nil for pure conditions) and whether the node succeeded. A failed
// branch lets a Selector fall through to the next priority.
type Node interface {
	Evaluate(c *character.Character, ctx *action.Context, e *Engine) (*Decision, bool)
}

// Selector tries children in order and returns the first success.
type Selector struct {
	Children []Node
}

func (s *Selector) Evaluate(c *character.Character, ctx *action.Context, e *Engine) (*Decision, bool) {
	for _, child := range s.Children {
		if d, ok := child.Evaluate(c, ctx, e); ok {
			return d, true
		}
	}
	return nil, false
}

// Sequence runs children in order and fails on the first failure. On
// success it returns the last child's decision.
type Sequence struct {
	Children []Node
}

func (s *Sequence) Evaluate(c *character.Character, ctx *action.Context, e *Engine) (*Decision, bool) {
	var last *Decision
	for _, child := range s.Children {
		d, ok := child.Evaluate(c, ctx, e)
		if !ok {
			return nil, false
		}
		last = d
	}
	return last, true
}

// Condition gates a sequence on a pure predicate. It produces no decision.
type Condition struct {
	Predicate func(c *character.Character, ctx *action.Context, e *Engine) bool
}

func (n *Condition) Evaluate(c *character.Character, ctx *action.Context, e *Engine) (*Decision, bool) {
	return nil, n.Predicate(c, ctx, e)
}

// Leaf produces a decision. A nil decision counts as failure so selectors
// fall through.
type Leaf struct {
	Fn func(c *character.Character, ctx *action.Context, e *Engine) *Decision
}

func (n *Leaf) Evaluate(c *character.Character, ctx *action.Context, e *Engine) (*Decision, bool) {
	d := n.Fn(c, ctx, e)
	return d, d != nil
}
