package indicators

// RSI computes the Relative Strength Index over the first min(period+1, len)
// samples. Positive deltas accumulate as gains, negated negative deltas as
// losses; both averages divide by period regardless of how many samples fed
// them. A series with no down-ticks saturates to 100.
func RSI(prices []float64, period int) float64 {
	gains := 0.0
	losses := 0.0

	n := period + 1
	if len(prices) < n {
		n = len(prices)
	}
	for i := 1; i < n; i++ {
		diff := prices[i] - prices[i-1]
		if diff >= 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// SMA computes the simple moving average over the last period samples,
// or over the whole series when it is shorter.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	start := len(prices) - period
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, p := range prices[start:] {
		sum += p
	}
	return sum / float64(len(prices)-start)
}

// EMA computes the exponential moving average of the whole series, seeded
// with the first sample and applied in chronological order.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	k := 2 / float64(period+1)
	ema := prices[0]
	for i := 1; i < len(prices); i++ {
		ema = (prices[i]-ema)*k + ema
	}
	return ema
}

// emaSeries returns the running EMA at every index.
func emaSeries(prices []float64, period int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	k := 2 / float64(period+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = (prices[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// MACDMode selects how the MACD signal line is computed.
type MACDMode string

const (
	// MACDCompat applies the EMA to a single-element series holding only
	// the current MACD value, so the signal line equals the MACD and the
	// histogram is zero. Default mode.
	MACDCompat MACDMode = "compat"
	// MACDStrict computes the textbook EMA(signalPeriod) over the rolling
	// MACD series.
	MACDStrict MACDMode = "strict"
)

// MACDResult holds the MACD line, its signal line, and the histogram.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes MACD = EMA(fast) - EMA(slow) of the close series and a
// signal line according to mode.
func MACD(prices []float64, fast, slow, signalPeriod int, mode MACDMode) MACDResult {
	macd := EMA(prices, fast) - EMA(prices, slow)

	var signal float64
	switch mode {
	case MACDStrict:
		fastS := emaSeries(prices, fast)
		slowS := emaSeries(prices, slow)
		macdSeries := make([]float64, len(prices))
		for i := range prices {
			macdSeries[i] = fastS[i] - slowS[i]
		}
		signal = EMA(macdSeries, signalPeriod)
	default:
		signal = EMA([]float64{macd}, signalPeriod)
	}

	return MACDResult{MACD: macd, Signal: signal, Histogram: macd - signal}
}
