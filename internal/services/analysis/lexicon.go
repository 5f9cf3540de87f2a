package analysis

// Keyword tables for the sentiment heuristics. These are tuning knobs
// copied from observed behavior, not load-bearing constants.

var positiveWords = map[string]bool{
	"surge": true, "surges": true, "rally": true, "rallies": true,
	"gain": true, "gains": true, "bullish": true, "soar": true,
	"soars": true, "rise": true, "rises": true, "jump": true,
	"jumps": true, "growth": true, "adoption": true, "record": true,
	"profit": true, "profits": true, "upgrade": true, "partnership": true,
	"approval": true, "win": true, "wins": true, "boost": true,
	"recovery": true, "recovers": true, "strong": true, "optimism": true,
	"milestone": true, "institutional": true,
}

var negativeWords = map[string]bool{
	"crash": true, "crashes": true, "plunge": true, "plunges": true,
	"drop": true, "drops": true, "bearish": true, "fall": true,
	"falls": true, "dump": true, "dumps": true, "loss": true,
	"losses": true, "hack": true, "hacked": true, "scam": true,
	"ban": true, "bans": true, "lawsuit": true, "selloff": true,
	"decline": true, "declines": true, "fear": true, "weak": true,
	"collapse": true, "fraud": true, "liquidation": true,
	"liquidations": true, "downgrade": true, "panic": true,
}

// Two-word phrase scores used by the contextual pass around
// domain-term mentions.
var phraseScores = map[string]float64{
	"all time":     0.5,
	"bull run":     0.8,
	"price surge":  0.8,
	"strong buy":   0.7,
	"new high":     0.7,
	"breaking out": 0.6,
	"price target": 0.3,
	"sell off":     -0.7,
	"bear market":  -0.8,
	"price crash":  -0.9,
	"rug pull":     -0.9,
	"death cross":  -0.7,
	"new low":      -0.6,
}

// Technical-analysis vocabulary.
var bullishTechnical = map[string]bool{
	"breakout": true, "support": true, "accumulation": true,
	"uptrend": true, "oversold": true, "golden": true,
	"bounce": true, "reclaim": true, "reversal": true,
}

var bearishTechnical = map[string]bool{
	"breakdown": true, "resistance": true, "distribution": true,
	"downtrend": true, "overbought": true, "rejection": true,
	"capitulation": true, "exhaustion": true,
}

// Magnitude adverbs for the impact tier.
var highImpactWords = map[string]bool{
	"massive": true, "significant": true, "huge": true,
	"major": true, "dramatic": true, "substantial": true,
	"unprecedented": true,
}

var lowImpactWords = map[string]bool{
	"slight": true, "slightly": true, "minor": true,
	"small": true, "modest": true, "marginal": true,
}

// Domain terms whose mentions anchor the contextual pass.
var domainTerms = map[string]bool{
	"crypto": true, "cryptocurrency": true, "bitcoin": true,
	"btc": true, "coin": true, "token": true, "market": true,
}
