package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"TradePilot/internal/domain/models"
	drepo "TradePilot/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a BookStream backed by the Hyperliquid WebSocket feed.
type Stream struct {
	websocketURL   string
	coins          []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// NewStream creates an l2Book stream for the given coins.
func NewStream(websocketURL string, coins []string, reconnectDelay, pingInterval time.Duration) drepo.BookStream {
	return &Stream{
		websocketURL:   websocketURL,
		coins:          coins,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("hyperliquid connect: %w", err)
	}
	s.conn = conn
	s.connected = true
	log.Printf("hyperliquid: connected")
	return nil
}

type wsSubscription struct {
	Type string `json:"type"`
	Coin string `json:"coin"`
}

type wsSubscribe struct {
	Method       string         `json:"method"`
	Subscription wsSubscription `json:"subscription"`
}

// Subscribe subscribes to l2Book updates for configured coins.
func (s *Stream) Subscribe(ctx context.Context) error {
	if s.conn == nil || !s.connected {
		return fmt.Errorf("hyperliquid not connected")
	}
	for _, coin := range s.coins {
		msg := wsSubscribe{Method: "subscribe", Subscription: wsSubscription{Type: "l2Book", Coin: coin}}
		if err := s.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", coin, err)
		}
		log.Printf("hyperliquid: subscribed l2Book %s", coin)
	}
	return nil
}

type wsBookData struct {
	Coin   string              `json:"coin"`
	Time   int64               `json:"time"`
	Levels [][]json.RawMessage `json:"levels"`
}

type wsMessage struct {
	Channel string     `json:"channel"`
	Data    wsBookData `json:"data"`
}

// Read streams book snapshots and errors.
func (s *Stream) Read(ctx context.Context) (<-chan models.OrderbookSnapshot, <-chan error) {
	books := make(chan models.OrderbookSnapshot, 256)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteJSON(map[string]string{"method": "ping"})
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(books)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("hyperliquid conn nil")
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("hyperliquid read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-book frames
					continue
				}
				if m.Channel != "l2Book" {
					continue
				}
				snap, err := parseBook(m.Data.Coin, rawBook{Levels: m.Data.Levels, Time: m.Data.Time})
				if err != nil {
					continue
				}
				select {
				case books <- snap:
				default:
					// drop on backpressure, only the latest book matters
				}
			}
		}
	}()

	return books, errs
}

// Reconnect closes and reconnects.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.connected }
