package analysis

import (
	"context"
	"fmt"
	"strings"

	"CoinPulse/internal/domain/models"
	domsvc "CoinPulse/internal/domain/service"
)

// TemplateNarrative is the default local narrative formatter. It never
// fails, so the pipeline gets prose even without an external generative
// collaborator.
type TemplateNarrative struct{}

func NewTemplateNarrative() *TemplateNarrative { return &TemplateNarrative{} }

func (t *TemplateNarrative) Narrative(_ context.Context, ind models.TechnicalIndicators, sent models.MarketSentiment) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "The market is in a %s with RSI at %.0f and %s. ",
		strings.ToLower(ind.MarketPhase), ind.RSI, ind.MACD.Interpretation)
	fmt.Fprintf(&b, "Support sits near %.2f and resistance near %.2f with annualized volatility of %.0f%%. ",
		ind.Support, ind.Resistance, ind.Volatility)
	fmt.Fprintf(&b, "News flow reads %s with %s impact across %d articles.",
		sent.Label, sent.Impact, sent.Articles)

	return b.String(), nil
}

var _ domsvc.NarrativeFormatter = (*TemplateNarrative)(nil)
