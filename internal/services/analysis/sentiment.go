package analysis

import (
	"math"
	"strings"
	"unicode"

	"CoinPulse/internal/domain/models"
)

// Sub-score weights. Configurable defaults copied from observed behavior.
const (
	weightLexical    = 0.2
	weightContextual = 0.3
	weightTechnical  = 0.3
	weightImpact     = 0.2

	// Classification thresholds on the signed [-1,1] scale.
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Price-change sentiment band, percent over 24h.
const priceBiasThreshold = 5.0

// ScoreText scores a single text item for directional sentiment against a
// symbol. The result score lives on a signed [-1,1] scale; label thresholds
// sit at ±0.2. Empty or signal-free text is neutral.
func ScoreText(symbol, text string) models.SentimentResult {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return models.SentimentResult{
			Label:      models.SentimentNeutral,
			Confidence: 30,
			Stats:      models.SentimentStats{Neutral: 100},
			Impact:     models.ImpactLow,
		}
	}

	lexical := lexicalScore(tokens)
	contextual, mentions := contextualScore(symbol, tokens)
	technical, techCount := technicalScore(tokens)
	impact, tier := impactScore(tokens, lexical+contextual+technical)

	score := weightLexical*lexical +
		weightContextual*contextual +
		weightTechnical*technical +
		weightImpact*impact

	label := models.SentimentNeutral
	switch {
	case score >= positiveThreshold:
		label = models.SentimentPositive
	case score <= negativeThreshold:
		label = models.SentimentNegative
	}

	confidence := confidenceFrom(score, []float64{lexical, contextual, technical, impact}, techCount, mentions)

	return models.SentimentResult{
		Label:      label,
		Score:      clamp(score, -1, 1),
		Confidence: confidence,
		Stats:      statsFrom(score, confidence),
		Impact:     tier,
	}
}

// AggregateNews combines per-article sentiment into one market sentiment,
// weighting each article by its confidence.
func AggregateNews(symbol string, items []models.NewsItem) models.MarketSentiment {
	if len(items) == 0 {
		return models.MarketSentiment{
			Label:      models.SentimentNeutral,
			Confidence: 30,
			Stats:      models.SentimentStats{Neutral: 100},
			Impact:     models.ImpactLow,
		}
	}

	var weightedScore, totalWeight, confSum float64
	impactCounts := map[string]int{}
	for _, it := range items {
		r := ScoreText(symbol, it.Title+". "+it.Description)
		weightedScore += r.Score * r.Confidence
		totalWeight += r.Confidence
		confSum += r.Confidence
		impactCounts[r.Impact]++
	}

	score := 0.0
	if totalWeight > 0 {
		score = weightedScore / totalWeight
	}
	confidence := clamp(confSum/float64(len(items)), 30, 95)

	label := models.SentimentNeutral
	switch {
	case score >= positiveThreshold:
		label = models.SentimentPositive
	case score <= negativeThreshold:
		label = models.SentimentNegative
	}

	impact := models.ImpactLow
	if impactCounts[models.ImpactHigh] >= impactCounts[models.ImpactMedium] &&
		impactCounts[models.ImpactHigh] >= impactCounts[models.ImpactLow] &&
		impactCounts[models.ImpactHigh] > 0 {
		impact = models.ImpactHigh
	} else if impactCounts[models.ImpactMedium] >= impactCounts[models.ImpactLow] &&
		impactCounts[models.ImpactMedium] > 0 {
		impact = models.ImpactMedium
	}

	return models.MarketSentiment{
		Label:      label,
		Score:      clamp(score, -1, 1),
		Confidence: confidence,
		Stats:      statsFrom(score, confidence),
		Impact:     impact,
		Articles:   len(items),
	}
}

// PriceBias classifies the 24h price change into Bullish/Bearish/Neutral.
func PriceBias(change24h float64) string {
	switch {
	case change24h >= priceBiasThreshold:
		return "Bullish"
	case change24h <= -priceBiasThreshold:
		return "Bearish"
	default:
		return "Neutral"
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%'
	})
}

// lexicalScore counts positive vs. negative keywords, normalized by token
// count so keyword-dense headlines score higher than long prose.
func lexicalScore(tokens []string) float64 {
	pos, neg := 0, 0
	for _, t := range tokens {
		if positiveWords[t] {
			pos++
		}
		if negativeWords[t] {
			neg++
		}
	}
	return clamp(float64(pos-neg)/float64(len(tokens)), -1, 1)
}

// contextualScore inspects a ±3-token window around domain-term mentions
// for scored two-word phrases, with proximity decay max(0, 1-distance/10).
func contextualScore(symbol string, tokens []string) (score float64, mentions int) {
	sym := strings.ToLower(symbol)
	for i, t := range tokens {
		if t != sym && !domainTerms[t] {
			continue
		}
		mentions++

		lo := i - 3
		if lo < 0 {
			lo = 0
		}
		hi := i + 3
		if hi > len(tokens)-2 {
			hi = len(tokens) - 2
		}
		for j := lo; j <= hi; j++ {
			if j < 0 {
				continue
			}
			phrase := tokens[j] + " " + tokens[j+1]
			v, ok := phraseScores[phrase]
			if !ok {
				continue
			}
			distance := math.Abs(float64(j - i))
			decay := 1 - distance/10
			if decay < 0 {
				decay = 0
			}
			score += v * decay
		}
	}
	return clamp(score, -1, 1), mentions
}

// technicalScore counts bullish vs. bearish technical-analysis vocabulary,
// normalized by the technical-term count.
func technicalScore(tokens []string) (score float64, count int) {
	bull, bear := 0, 0
	for _, t := range tokens {
		if bullishTechnical[t] {
			bull++
		}
		if bearishTechnical[t] {
			bear++
		}
	}
	count = bull + bear
	if count == 0 {
		return 0, 0
	}
	return float64(bull-bear) / float64(count), count
}

// impactScore derives a magnitude from adverbs and numeric mentions, then
// signs it with the direction of the other sub-scores.
func impactScore(tokens []string, directional float64) (score float64, tier string) {
	high, low, numeric := 0, 0, 0
	for _, t := range tokens {
		if highImpactWords[t] {
			high++
		}
		if lowImpactWords[t] {
			low++
		}
		if strings.ContainsRune(t, '%') || strings.IndexFunc(t, unicode.IsDigit) >= 0 {
			numeric++
		}
	}

	switch {
	case high > low:
		tier = models.ImpactHigh
	case low > high:
		tier = models.ImpactLow
	case numeric > 0:
		tier = models.ImpactMedium
	default:
		tier = models.ImpactLow
	}

	magnitude := clamp(0.4*float64(high)-0.3*float64(low)+0.1*float64(numeric), 0, 1)
	if directional > 0 {
		return magnitude, tier
	}
	if directional < 0 {
		return -magnitude, tier
	}
	return 0, tier
}

// confidenceFrom scales the sign-agreement ratio of the sub-scores into
// [30,95], boosted by technical-term density and contextual relevance.
func confidenceFrom(total float64, subs []float64, techCount, mentions int) float64 {
	nonzero, agree := 0, 0
	for _, s := range subs {
		if s == 0 {
			continue
		}
		nonzero++
		if (s > 0) == (total > 0) && total != 0 {
			agree++
		}
	}

	ratio := 0.0
	if nonzero > 0 {
		ratio = float64(agree) / float64(nonzero)
	}

	conf := 30 + ratio*45
	conf += math.Min(10, float64(techCount)*2)
	conf += math.Min(10, float64(mentions)*2)
	return clamp(conf, 30, 95)
}

// statsFrom splits the signed score into positive/negative/neutral
// percentages that always sum to 100.
func statsFrom(score, confidence float64) models.SentimentStats {
	pos := int(math.Round(math.Max(0, score) * confidence))
	neg := int(math.Round(math.Max(0, -score) * confidence))
	if pos > 100 {
		pos = 100
	}
	if neg > 100-pos {
		neg = 100 - pos
	}
	return models.SentimentStats{
		Positive: pos,
		Negative: neg,
		Neutral:  100 - pos - neg,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
