// Package ecs: this file keeps a minimal query contract over Signature,
// in scope only so an external query package has a concrete surface to
// build against (spec.md §1 scopes the full query/system layer out —
// only referenced, not specified here).
package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// Query is a composable filter built from field sets and nested nodes.
type Query interface {
	QueryNode
	And(items ...interface{}) QueryNode
	Or(items ...interface{}) QueryNode
	Not(items ...interface{}) QueryNode
}

// QueryNode evaluates against one archetype's signature.
type QueryNode interface {
	Evaluate(archetype *Archetype) bool
}

// QueryOperation is the boolean combinator a compositeNode applies.
type QueryOperation int

const (
	OpAnd QueryOperation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op       QueryOperation
	children []QueryNode
	fields   []FieldId
}

type query struct {
	root QueryNode
}

// NewQuery starts a new, empty Query.
func NewQuery() Query {
	return &query{}
}

func newCompositeNode(op QueryOperation, fields []FieldId) *compositeNode {
	return &compositeNode{op: op, fields: fields}
}

func signatureOf(fields []FieldId) Signature {
	return NewSignature(fields...)
}

// Evaluate implements QueryNode for compositeNode, consulting the
// archetype's derived Mask256 bitset cache for the coarse check and its
// Signature for the exact one.
func (n *compositeNode) Evaluate(archetype *Archetype) bool {
	nodeSig := signatureOf(n.fields)
	archSig := archetype.Signature()

	switch n.op {
	case OpAnd:
		if !archSig.Bits().ContainsAll(nodeSig.Bits()) || !archSig.ContainsAll(nodeSig) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype) {
				return false
			}
		}
		return true
	case OpOr:
		if archSig.Bits().ContainsAny(nodeSig.Bits()) {
			for _, f := range nodeSig.Fields() {
				if archSig.Contains(f) {
					return true
				}
			}
		}
		for _, child := range n.children {
			if child.Evaluate(archetype) {
				return true
			}
		}
		return false
	case OpNot:
		if !archSig.Bits().ContainsNone(nodeSig.Bits()) {
			for _, f := range nodeSig.Fields() {
				if archSig.Contains(f) {
					return false
				}
			}
		}
		for _, child := range n.children {
			if child.Evaluate(archetype) {
				return false
			}
		}
		return true
	}
	return false
}

func (q *query) And(items ...interface{}) QueryNode {
	fields, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, fields)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	fields, children := q.processItems(items...)
	node := newCompositeNode(OpOr, fields)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	fields, children := q.processItems(items...)
	node := newCompositeNode(OpNot, fields)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) validateQueryItems(items ...interface{}) error {
	for _, item := range items {
		switch item.(type) {
		case FieldId, []FieldId, QueryNode, Query:
			continue
		default:
			return fmt.Errorf("invalid query item type: %T. Only FieldId, []FieldId, or QueryNode are allowed", item)
		}
	}
	return nil
}

func (q *query) processItems(items ...interface{}) ([]FieldId, []QueryNode) {
	if err := q.validateQueryItems(items...); err != nil {
		panic(bark.AddTrace(err))
	}
	fields := make([]FieldId, 0)
	children := make([]QueryNode, 0)
	for _, item := range items {
		switch v := item.(type) {
		case FieldId:
			fields = append(fields, v)
		case []FieldId:
			fields = append(fields, v...)
		case QueryNode:
			children = append(children, v)
		}
	}
	return fields, children
}

func (q *query) Evaluate(archetype *Archetype) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype)
}
