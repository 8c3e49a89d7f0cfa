package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// ChangeEvent is a document change pushed over the websocket feed.
type ChangeEvent struct {
	Type    string        `json:"type"`
	Payload ChangePayload `json:"payload"`
}

// ChangePayload identifies the changed document.
type ChangePayload struct {
	UserID      string `json:"user_id"`
	InterviewID string `json:"interview_id"`
	Op          string `json:"op"`
}

// Watch streams change events for the signed-in user until ctx is done or
// the connection drops.
func (c *Client) Watch(ctx context.Context, fn func(ChangeEvent)) error {
	token := c.token()
	if token == "" {
		return &Error{Status: http.StatusUnauthorized, ErrCode: CodeUnauthenticated, Message: "not signed in"}
	}

	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws"
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %s: %w", wsURL, resp.Status, err)
		}
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		var evt ChangeEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			c.log.Warn().Err(err).Msg("skipping malformed event")
			continue
		}
		fn(evt)
	}
}
