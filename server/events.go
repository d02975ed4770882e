package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// closeWait bounds how long the close frame may take to write on shutdown
const closeWait = time.Second

// requireUpgrade lets only websocket handshakes through to /events
func requireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// handleEvents pushes every boot payload to the connected shell as a JSON
// text message, starting with the last one published
func (s *Server) handleEvents() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		logger := loggerFrom(conn.Locals(loggerKey))
		id, payloads := s.events.Subscribe()
		defer s.events.Unsubscribe(id)
		logger.Debug().Str("subscriber", id).Msg("Boot stream opened")

		// The shell never sends; reading surfaces its close
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
		defer func() {
			conn.Close()
			<-gone
			logger.Debug().Str("subscriber", id).Msg("Boot stream closed")
		}()

		for {
			select {
			case <-gone:
				return
			case <-s.closing:
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
				return
			case p, ok := <-payloads:
				if !ok {
					return
				}
				if err := conn.WriteJSON(p); err != nil {
					logger.Debug().Err(err).Str("subscriber", id).Msg("Push failed")
					return
				}
			}
		}
	})
}
