// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package orchestrator

import (
	"github.com/tomtom215/cartsense/internal/catalog"
)

// ChangeKind classifies a cart mutation.
type ChangeKind int

const (
	// ChangeNone means the cart is identical, ids and quantities alike.
	ChangeNone ChangeKind = iota
	// ChangeOptimisticAccept means every newly added id is currently on
	// offer in an active session.
	ChangeOptimisticAccept
	// ChangeOther is any other mutation: quantity edits, removals and
	// unrelated additions.
	ChangeOther
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeNone:
		return "none"
	case ChangeOptimisticAccept:
		return "optimistic_accept"
	case ChangeOther:
		return "other"
	default:
		return "unknown"
	}
}

// Change is the result of ClassifyChange.
type Change struct {
	Kind ChangeKind
	// Accepted lists the added ids, in cart order, for an optimistic accept.
	Accepted []string
}

// ClassifyChange compares two carts against the suggestion session.
// It has no side effects.
func ClassifyChange(prev, next catalog.Cart, session *Session) Change {
	if sameCart(prev, next) {
		return Change{Kind: ChangeNone}
	}

	prevIDs := prev.IDSet()
	var added []string
	for i := range next {
		if _, ok := prevIDs[next[i].ID]; !ok {
			added = append(added, next[i].ID)
		}
	}

	if session == nil || !session.Active || len(added) == 0 {
		return Change{Kind: ChangeOther}
	}
	for _, id := range added {
		if !session.Offers(id) {
			return Change{Kind: ChangeOther}
		}
	}
	return Change{Kind: ChangeOptimisticAccept, Accepted: added}
}

func sameCart(a, b catalog.Cart) bool {
	if len(a) != len(b) {
		return false
	}
	qty := make(map[string]int, len(a))
	for i := range a {
		qty[a[i].ID] = a[i].Quantity
	}
	for i := range b {
		q, ok := qty[b[i].ID]
		if !ok || q != b[i].Quantity {
			return false
		}
	}
	return true
}
