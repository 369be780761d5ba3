// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package enrich

import (
	"strconv"
	"strings"
)

// BuildPrompt renders the provider prompt from request data alone.
func BuildPrompt(req *Request) string {
	occasion := "None"
	if req.Signals.Occasion != nil && *req.Signals.Occasion != "" {
		occasion = *req.Signals.Occasion
	}

	var b strings.Builder
	b.WriteString("ROLE: Senior Recommendation Engine for Instamart.\n")
	b.WriteString("GOAL: Identify the User's Intent (Context) and prevent missed essentials (Retention).\n\n")

	b.WriteString("INPUT DATA:\n")
	b.WriteString("- Time: " + strings.ToUpper(string(req.Signals.TimeBucket)) +
		" (Hour: " + strconv.Itoa(req.Signals.HourLocal) + ")\n")
	b.WriteString("- Occasion: " + occasion + " (" + string(req.Signals.OccasionType) + ")\n")
	b.WriteString("- Payday Window: " + strconv.FormatBool(req.Signals.PaydayWindow()) + "\n")
	b.WriteString("- Detected Contexts: [ " + req.ContextStr + " ]\n")
	b.WriteString("- Cart Items: [ " + req.CartSummary + " ]\n\n")

	b.WriteString("CANDIDATE POOL:\n")
	b.WriteString(req.CandidateList)
	b.WriteString("\n\n")

	b.WriteString(criticalRules)
	b.WriteString("\n")
	b.WriteString(instructions)
	return b.String()
}

const criticalRules = `CRITICAL RULES:
1. **DO NOT default to Breakfast.** Only use "Breakfast" framing IF "Breakfast Prep" is the top detected context OR if the time is Morning (5AM-11AM) AND the cart contains dairy/bread/eggs.
2. **Respect Detected Context.** If the top detected context is "Cleaning Day" (e.g., Harpic, Lizol), suggest cleaning add-ons (Sponges, Bin Bags), NOT food.
3. **Late Night Logic.** If time is Late Night, prioritize snacks/beverages over cooking ingredients.
4. **Mixed Cart.** If no strong context is detected, default to "Weekly Restock" or "Kitchen Essentials" and suggest bridging items (Oil, Onions, Spices).
`

const instructions = `INSTRUCTIONS:
1. Select 6-10 items with the highest relevance to the Primary Context.
2. "reason" must be short: "Pairs with Chips", "Cleaning Essential", "Puja Must-have".
3. Return JSON matching schema.
`
