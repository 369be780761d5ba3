// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"strings"

	"github.com/tomtom215/cartsense/internal/catalog"
)

// triggerIndex is an Aho-Corasick automaton over every context trigger.
// One pass over an item name finds every trigger it contains, in
// O(len(name) + matches) instead of O(len(name) * triggers).
//
// Identical trigger text shared by several contexts ("chips", "coke") is
// stored once and fans out to every owning context through refs.
//
// The index is immutable after construction and safe for concurrent use.
type triggerIndex struct {
	root     *acNode
	patterns []string
	refs     [][]triggerRef
	byText   map[string]int
}

// triggerRef points at one trigger of one context definition.
type triggerRef struct {
	context int
	trigger int
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int // pattern indices ending here, including via failure links
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

func newTriggerIndex(defs []catalog.ContextDefinition) *triggerIndex {
	ix := &triggerIndex{root: newACNode(), byText: make(map[string]int)}
	byText := ix.byText

	for ci, def := range defs {
		for ti, trig := range def.Triggers {
			text := strings.ToLower(trig)
			if text == "" {
				continue
			}
			pi, ok := byText[text]
			if !ok {
				pi = len(ix.patterns)
				byText[text] = pi
				ix.patterns = append(ix.patterns, text)
				ix.refs = append(ix.refs, nil)
				ix.insert(pi, text)
			}
			ix.refs[pi] = append(ix.refs[pi], triggerRef{context: ci, trigger: ti})
		}
	}

	ix.buildFailureLinks()
	return ix
}

func (ix *triggerIndex) insert(pattern int, text string) {
	node := ix.root
	for _, ch := range text {
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.output = append(node.output, pattern)
}

// buildFailureLinks wires failure links breadth-first so a node's failure
// target is always finalized before the node merges its output.
func (ix *triggerIndex) buildFailureLinks() {
	queue := make([]*acNode, 0, len(ix.root.children))
	for _, child := range ix.root.children {
		child.failure = ix.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = ix.root
			} else {
				child.failure = fail.children[ch]
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// lookup returns the pattern index of a lowercase trigger.
func (ix *triggerIndex) lookup(text string) (int, bool) {
	pi, ok := ix.byText[text]
	return pi, ok
}

// match returns every distinct trigger contained in name, case-insensitively.
// The returned slice holds pattern indices; use refs to map them to contexts.
func (ix *triggerIndex) match(name string) []int {
	text := strings.ToLower(name)
	var found []int
	seen := make(map[int]struct{})

	node := ix.root
	for _, ch := range text {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = ix.root
			continue
		}
		node = node.children[ch]

		for _, pi := range node.output {
			if _, dup := seen[pi]; dup {
				continue
			}
			seen[pi] = struct{}{}
			found = append(found, pi)
		}
	}
	return found
}
