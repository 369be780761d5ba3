// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package enrich

import (
	"strconv"
	"strings"

	"github.com/tomtom215/cartsense/internal/catalog"
	"github.com/tomtom215/cartsense/internal/recommend"
)

// NoContextDetected is sent as ContextStr when no context qualified.
const NoContextDetected = "No specific context detected (Mixed Bag)"

// Request is the body accepted by the analyze endpoint. It carries data
// only; the prompt is always assembled server side.
type Request struct {
	Signals       recommend.TemporalSignals `json:"signals"`
	ContextStr    string                    `json:"contextStr"`
	CartSummary   string                    `json:"cartSummary" validate:"required"`
	CandidateList string                    `json:"candidateList" validate:"required"`
}

// BuildRequest flattens a cart and its preparation into a Request.
func BuildRequest(cart catalog.Cart, prep *recommend.Preparation) Request {
	return Request{
		Signals:       prep.Signals,
		ContextStr:    contextString(prep.Detection.Contexts),
		CartSummary:   cartSummary(cart),
		CandidateList: candidateList(prep.Candidates),
	}
}

func contextString(contexts []recommend.DetectedContext) string {
	if len(contexts) == 0 {
		return NoContextDetected
	}
	parts := make([]string, len(contexts))
	for i := range contexts {
		c := &contexts[i]
		parts[i] = c.Title + " (Score:" + formatNumber(c.WeightedScore) +
			", Conf:" + formatNumber(c.Confidence) + ")"
	}
	return strings.Join(parts, ", ")
}

func cartSummary(cart catalog.Cart) string {
	parts := make([]string, len(cart))
	for i := range cart {
		parts[i] = `"` + strconv.Itoa(cart[i].Quantity) + "x " + cart[i].Name + `"`
	}
	return strings.Join(parts, ", ")
}

func candidateList(products []catalog.Product) string {
	lines := make([]string, len(products))
	for i := range products {
		p := &products[i]
		lines[i] = "ID:" + p.ID + " | Name:" + p.Name + " | Cat:" + p.CategoryID +
			" | Price:" + formatNumber(p.Price)
	}
	return strings.Join(lines, "\n")
}

// formatNumber renders v with the shortest exact representation, so 30
// prints as "30" and 0.25 as "0.25".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
