package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	writeTimeout      = 10 * time.Second
	heartbeatInterval = 30 * time.Second
)

// Server upgrades HTTP requests to websocket connections and attaches
// each one to the hub as a Client.
type Server struct {
	hub            *Hub
	buffer         int
	originPatterns []string
}

// NewServer creates the websocket endpoint for hub. allowedOrigins uses the
// CORS form (https://site.example); bare host patterns are also accepted and
// "*" allows any origin.
func NewServer(hub *Hub, buffer int, allowedOrigins []string) *Server {
	return &Server{hub: hub, buffer: buffer, originPatterns: originHostPatterns(allowedOrigins)}
}

// originHostPatterns reduces full origins to the host[:port] form that
// websocket.AcceptOptions matches against.
func originHostPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if strings.Contains(origin, "://") {
			if u, err := url.Parse(origin); err == nil && u.Host != "" {
				origin = u.Host
			}
		}
		patterns = append(patterns, origin)
	}
	return patterns
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{OriginPatterns: s.originPatterns}
	for _, p := range s.originPatterns {
		if p == "*" {
			opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
			break
		}
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		log.Printf("[RELAY] accept: %v", err)
		return
	}
	defer conn.CloseNow()

	s.serve(r.Context(), conn)
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := NewClient(s.buffer)
	defer func() {
		s.hub.LeaveAll(client)
		client.Close()
	}()

	go s.writeLoop(ctx, cancel, conn, client)

	for {
		var in inboundFrame
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if !errors.Is(err, context.Canceled) {
					log.Printf("[RELAY] client %d read: %v", client.ID, err)
				}
			}
			return
		}

		switch in.Event {
		case EventJoinFeedback, EventLeaveFeedback:
			id, err := parseFeedbackID(in.Data)
			if err != nil {
				log.Printf("[RELAY] client %d sent %s with bad id: %v", client.ID, in.Event, err)
				continue
			}
			if in.Event == EventJoinFeedback {
				s.hub.Join(id, client)
			} else {
				s.hub.Leave(id, client)
			}
		default:
			log.Printf("[RELAY] client %d sent unknown event %q", client.ID, in.Event)
		}
	}
}

// writeLoop is the only writer on conn, which keeps per-connection order.
func (s *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, client *Client) {
	defer cancel()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done():
			return
		case frame := <-client.Send():
			writeCtx, writeCancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, frame)
			writeCancel()
			if err != nil {
				log.Printf("[RELAY] client %d write %s: %v", client.ID, frame.Event, err)
				return
			}
		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				log.Printf("[RELAY] client %d ping: %v", client.ID, err)
				return
			}
		}
	}
}

// parseFeedbackID accepts both 7 and "7"
func parseFeedbackID(raw json.RawMessage) (uint, error) {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" {
		return 0, fmt.Errorf("missing feedback id")
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid feedback id %q", text)
	}
	return uint(n), nil
}
