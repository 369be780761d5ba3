// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"strings"
	"unicode/utf16"

	"github.com/tomtom215/cartsense/internal/catalog"
)

// FallbackMessage is shown for contexts without a copy deck.
const FallbackMessage = "You might also like these..."

const heroNameLimit = 25

// Compose renders the nudge for a context. The base line depends only on
// cart membership, so quantity edits never change it; they can change the
// hero clause prepended to even-indexed lines.
func Compose(contextID string, cart catalog.Cart) string {
	deck, ok := catalog.CopyFor(contextID)
	if !ok || len(deck.Lines) == 0 {
		return FallbackMessage
	}

	index := copyIndex(cart.Signature(), len(deck.Lines))
	base := deck.Lines[index]

	if cart.IsEmpty() || index%2 != 0 {
		return base
	}

	hero := heroItem(cart)
	if utf16Len(hero.Name) >= heroNameLimit {
		return base
	}
	return "That " + firstWords(hero.Name, 2) + " looks lonely. " + base
}

// copyIndex hashes the signature with h = h*31 + c over UTF-16 code units,
// wrapping at 32 bits, and reduces |h| modulo n.
func copyIndex(signature string, n int) int {
	var h int32
	for _, c := range utf16.Encode([]rune(signature)) {
		h = h*31 + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return int(abs % int64(n))
}

// heroItem is the line with the highest price*quantity; the earliest wins ties.
func heroItem(cart catalog.Cart) catalog.CartItem {
	hero := cart[0]
	for _, item := range cart[1:] {
		if item.LineTotal() > hero.LineTotal() {
			hero = item
		}
	}
	return hero
}

func firstWords(s string, n int) string {
	words := strings.Split(s, " ")
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
