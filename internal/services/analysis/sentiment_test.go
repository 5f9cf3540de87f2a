package analysis

import (
	"testing"

	"CoinPulse/internal/domain/models"
)

func TestScoreTextEmpty(t *testing.T) {
	r := ScoreText("BTC", "")
	if r.Label != models.SentimentNeutral {
		t.Fatalf("empty text should be neutral, got %q", r.Label)
	}
	if r.Confidence != 30 {
		t.Fatalf("empty text confidence should floor at 30, got %v", r.Confidence)
	}
	if r.Stats != (models.SentimentStats{Neutral: 100}) {
		t.Fatalf("unexpected stats %+v", r.Stats)
	}
	if r.Impact != models.ImpactLow {
		t.Fatalf("unexpected impact %q", r.Impact)
	}
}

func TestScoreTextPositive(t *testing.T) {
	r := ScoreText("BTC", "Bitcoin bull run continues as surge rally gains boost optimism")
	if r.Label != models.SentimentPositive {
		t.Fatalf("expected positive, got %q (score %v)", r.Label, r.Score)
	}
	if r.Score <= 0 {
		t.Fatalf("expected positive score, got %v", r.Score)
	}
	if r.Confidence < 30 || r.Confidence > 95 {
		t.Fatalf("confidence out of [30,95]: %v", r.Confidence)
	}
}

func TestScoreTextNegative(t *testing.T) {
	r := ScoreText("BTC", "Bitcoin price crash deepens amid panic selloff and fear")
	if r.Label != models.SentimentNegative {
		t.Fatalf("expected negative, got %q (score %v)", r.Label, r.Score)
	}
	if r.Score >= 0 {
		t.Fatalf("expected negative score, got %v", r.Score)
	}
}

func TestScoreTextNeutralNoSignal(t *testing.T) {
	r := ScoreText("BTC", "the committee will meet on thursday to discuss the agenda")
	if r.Label != models.SentimentNeutral {
		t.Fatalf("signal-free text should be neutral, got %q", r.Label)
	}
}

func TestScoreTextStatsSumTo100(t *testing.T) {
	texts := []string{
		"Bitcoin bull run continues as surge rally gains boost optimism",
		"Bitcoin price crash deepens amid panic selloff and fear",
		"massive unprecedented surge",
		"",
	}
	for _, txt := range texts {
		r := ScoreText("BTC", txt)
		if sum := r.Stats.Positive + r.Stats.Negative + r.Stats.Neutral; sum != 100 {
			t.Fatalf("stats for %q sum to %d, want 100", txt, sum)
		}
	}
}

func TestAggregateNewsEmpty(t *testing.T) {
	s := AggregateNews("BTC", nil)
	if s.Label != models.SentimentNeutral || s.Confidence != 30 || s.Articles != 0 {
		t.Fatalf("unexpected aggregate for no news: %+v", s)
	}
}

func TestAggregateNewsPositiveCorpus(t *testing.T) {
	items := []models.NewsItem{
		{Title: "Bitcoin bull run continues", Description: "surge rally gains boost optimism across the market"},
		{Title: "Crypto adoption hits record milestone", Description: "institutional growth and strong optimism"},
	}
	s := AggregateNews("BTC", items)
	if s.Articles != 2 {
		t.Fatalf("expected 2 articles, got %d", s.Articles)
	}
	if s.Score <= 0 {
		t.Fatalf("expected positive aggregate score, got %v", s.Score)
	}
	if s.Confidence < 30 || s.Confidence > 95 {
		t.Fatalf("confidence out of range: %v", s.Confidence)
	}
	if sum := s.Stats.Positive + s.Stats.Negative + s.Stats.Neutral; sum != 100 {
		t.Fatalf("aggregate stats sum to %d", sum)
	}
}

func TestPriceBias(t *testing.T) {
	cases := []struct {
		change float64
		want   string
	}{
		{6.2, "Bullish"},
		{5.0, "Bullish"},
		{3.0, "Neutral"},
		{0, "Neutral"},
		{-4.9, "Neutral"},
		{-5.0, "Bearish"},
		{-12.5, "Bearish"},
	}
	for _, c := range cases {
		if got := PriceBias(c.change); got != c.want {
			t.Fatalf("PriceBias(%v) = %q, want %q", c.change, got, c.want)
		}
	}
}
