package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"signpad/internal/signature"
)

// Send delivers one file to the collector at addr (host:port) and waits for
// its acknowledgement.
func Send(ctx context.Context, addr string, f signature.File) (Ack, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, "ws://"+addr+Path, nil)
	if err != nil {
		return Ack{}, fmt.Errorf("dial collector %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
		conn.SetReadDeadline(deadline)
	}

	env := NewEnvelope(f)
	if err := conn.WriteJSON(env); err != nil {
		return Ack{}, fmt.Errorf("send %s: %w", f.Name, err)
	}
	var ack Ack
	if err := conn.ReadJSON(&ack); err != nil {
		return Ack{}, fmt.Errorf("read ack: %w", err)
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	if ack.ID != env.ID {
		return ack, fmt.Errorf("ack for %q, sent %q", ack.ID, env.ID)
	}
	if ack.Status != StatusOK {
		return ack, fmt.Errorf("%w: %s", ErrRejected, ack.Reason)
	}
	return ack, nil
}
