package hyperliquid

import (
	"encoding/json"
	"testing"
)

func TestParseBookPairLevels(t *testing.T) {
	var raw rawBook
	if err := json.Unmarshal([]byte(`{"levels":[[["100.5","2.0"],["100.0","1.5"]],[["101.0","3.0"]]],"time":1700000000000}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	snap, err := parseBook("BTC", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Bids) != 2 || len(snap.Asks) != 1 {
		t.Fatalf("unexpected level counts: %d/%d", len(snap.Bids), len(snap.Asks))
	}
	if snap.Bids[0].Price != 100.5 || snap.Bids[0].Size != 2.0 {
		t.Fatalf("unexpected best bid: %+v", snap.Bids[0])
	}
	if snap.Coin != "BTC" {
		t.Fatalf("unexpected coin %q", snap.Coin)
	}
}

func TestParseBookObjectLevels(t *testing.T) {
	var raw rawBook
	if err := json.Unmarshal([]byte(`{"levels":[[{"px":"99.0","sz":"4.0","n":2}],[{"px":"101.0","sz":"1.0","n":1}]]}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	snap, err := parseBook("ETH", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Bids[0].Price != 99.0 || snap.Asks[0].Size != 1.0 {
		t.Fatalf("unexpected levels: %+v / %+v", snap.Bids, snap.Asks)
	}
}

func TestParseBookMissingSide(t *testing.T) {
	raw := rawBook{Levels: [][]json.RawMessage{{}}}
	if _, err := parseBook("BTC", raw); err == nil {
		t.Fatalf("expected error for missing ask side")
	}
}

func TestParseBookBadPrice(t *testing.T) {
	var raw rawBook
	if err := json.Unmarshal([]byte(`{"levels":[[["abc","1.0"]],[["101.0","1.0"]]]}`), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := parseBook("BTC", raw); err == nil {
		t.Fatalf("expected parse error for non-numeric price")
	}
}

func TestRawCandleParse(t *testing.T) {
	rc := rawCandle{T: 1700000000000, O: "100.0", H: "110.0", L: "95.0", C: "105.5", V: "1234.5"}
	got, err := rc.parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Close != 105.5 || got.Volume != 1234.5 {
		t.Fatalf("unexpected candle: %+v", got)
	}
	if got.OpenTime.UnixMilli() != 1700000000000 {
		t.Fatalf("unexpected open time: %v", got.OpenTime)
	}
}

func TestRawCandleParseRejectsGarbage(t *testing.T) {
	rc := rawCandle{T: 1, O: "x", H: "1", L: "1", C: "1", V: "1"}
	if _, err := rc.parse(); err == nil {
		t.Fatalf("expected error for non-numeric open")
	}
}
