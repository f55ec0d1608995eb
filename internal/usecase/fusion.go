package usecase

import (
	"fmt"
	"time"

	"TradePilot/internal/domain/models"
)

// Fixed fusion weights; they must sum to 1.0.
const (
	WeightOrderbook = 0.40
	WeightTechnical = 0.35
	WeightNews      = 0.25
)

// ActionConfidenceGate is the hard confidence floor below which every
// non-neutral signal still resolves to HOLD.
const ActionConfidenceGate = 65

// ValidationError marks malformed fusion input, as opposed to the
// degraded-but-valid NEUTRAL SubSignals the analyzers emit.
type ValidationError struct {
	Source models.Source
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s sub-signal: %s", e.Source, e.Reason)
}

// SignalFusion combines news, orderbook, and technical SubSignals into one
// MasterSignal. It is a pure function of its inputs: no I/O, deterministic,
// safe from any number of callers.
type SignalFusion struct{}

// NewSignalFusion creates a fusion engine.
func NewSignalFusion() *SignalFusion { return &SignalFusion{} }

// Fuse validates the three sub-signals and produces the weighted decision.
// Malformed input fails fast with a *ValidationError; treating it as
// evidence would corrupt the decision.
func (f *SignalFusion) Fuse(coin string, news, book, tech models.SubSignal) (models.MasterSignal, error) {
	for _, pair := range []struct {
		want models.Source
		sub  models.SubSignal
	}{
		{models.SourceNews, news},
		{models.SourceOrderbook, book},
		{models.SourceTechnical, tech},
	} {
		if err := validateSubSignal(pair.want, pair.sub); err != nil {
			return models.MasterSignal{}, err
		}
	}

	newsScore := signalScore(news.Signal)
	bookScore := signalScore(book.Signal)
	techScore := signalScore(tech.Signal)

	weightedScore := bookScore*WeightOrderbook + techScore*WeightTechnical + newsScore*WeightNews
	weightedConfidence := book.Confidence*WeightOrderbook + tech.Confidence*WeightTechnical + news.Confidence*WeightNews

	final := scoreToSignal(weightedScore)

	action := models.Hold
	switch {
	case final.IsBullish() && weightedConfidence >= ActionConfidenceGate:
		action = models.OpenLong
	case final.IsBearish() && weightedConfidence >= ActionConfidenceGate:
		action = models.OpenShort
	}

	return models.MasterSignal{
		Coin:          coin,
		Timestamp:     time.Now(),
		Signal:        final,
		Action:        action,
		Confidence:    weightedConfidence,
		WeightedScore: weightedScore,
		Breakdown: models.Breakdown{
			News:      contribution(newsScore, WeightNews),
			Orderbook: contribution(bookScore, WeightOrderbook),
			Technical: contribution(techScore, WeightTechnical),
		},
		Reasoning: reasoning(news, book, tech),
	}, nil
}

func validateSubSignal(want models.Source, s models.SubSignal) error {
	if s.Source != want {
		return &ValidationError{Source: want, Reason: fmt.Sprintf("unexpected source %q", s.Source)}
	}
	if !models.KnownSource(s.Source) {
		return &ValidationError{Source: want, Reason: "unrecognized source"}
	}
	if s.Confidence < 0 || s.Confidence > 100 {
		return &ValidationError{Source: want, Reason: fmt.Sprintf("confidence %.1f outside [0,100]", s.Confidence)}
	}
	return nil
}

// signalScore maps a categorical signal to [0,100]. Unrecognized values
// count as neutral evidence.
func signalScore(s models.Signal) float64 {
	switch s {
	case models.StrongBuy:
		return 100
	case models.Buy:
		return 75
	case models.Neutral:
		return 50
	case models.Sell:
		return 25
	case models.StrongSell:
		return 0
	default:
		return 50
	}
}

func scoreToSignal(score float64) models.Signal {
	switch {
	case score >= 75:
		return models.StrongBuy
	case score >= 60:
		return models.Buy
	case score <= 25:
		return models.StrongSell
	case score <= 40:
		return models.Sell
	default:
		return models.Neutral
	}
}

func contribution(score, weight float64) models.Contribution {
	return models.Contribution{Score: score, Weight: weight, Contribution: score * weight}
}

// reasoning builds one sentence per non-neutral source.
func reasoning(news, book, tech models.SubSignal) string {
	var out string
	add := func(s string) {
		if out != "" {
			out += ". "
		}
		out += s
	}

	if news.Signal != models.Neutral {
		add(fmt.Sprintf("News sentiment is %s (%s)", news.Evidence.Sentiment, news.Signal))
	}
	if book.Signal != models.Neutral {
		add(fmt.Sprintf("Orderbook shows %.2f%% imbalance (%s)", book.Evidence.Imbalance, book.Signal))
	}
	if tech.Signal != models.Neutral {
		add(fmt.Sprintf("Technical indicators: RSI %.2f (%s)", tech.Evidence.RSI, tech.Signal))
	}

	if out == "" {
		return "All signals are neutral - no clear direction"
	}
	return out + "."
}
