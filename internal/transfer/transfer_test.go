package transfer

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signpad/internal/signature"
)

type recordingSink struct {
	mu    sync.Mutex
	files []signature.File
	from  []string
	err   error
}

func (s *recordingSink) save(f signature.File, from string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.files = append(s.files, f)
	s.from = append(s.from, from)
	return nil
}

func startCollector(t *testing.T, sink Sink) (*Collector, string) {
	t.Helper()
	c := NewCollector(sink)
	srv := httptest.NewServer(c.Handler())
	t.Cleanup(srv.Close)
	return c, strings.TrimPrefix(srv.URL, "http://")
}

func pngFile(name string) signature.File {
	return signature.File{Name: name, MIMEType: signature.PNGMIMEType, Data: []byte("\x89PNG fake")}
}

func TestSendDelivers(t *testing.T) {
	sink := &recordingSink{}
	_, addr := startCollector(t, sink.save)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ack, err := Send(ctx, addr, pngFile("314.png"))
	require.NoError(t, err)
	assert.Equal(t, StatusOK, ack.Status)
	assert.NotEmpty(t, ack.ID)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.files, 1)
	assert.Equal(t, pngFile("314.png"), sink.files[0])
	assert.NotEmpty(t, sink.from[0])
}

func TestSendRejected(t *testing.T) {
	sink := &recordingSink{}
	_, addr := startCollector(t, sink.save)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := pngFile("314.png")
	f.MIMEType = "image/jpeg"
	ack, err := Send(ctx, addr, f)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, StatusRejected, ack.Status)
	assert.Empty(t, sink.files)
}

func TestSendSinkFailure(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	_, addr := startCollector(t, sink.save)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ack, err := Send(ctx, addr, pngFile("1.png"))
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, StatusFailed, ack.Status)
	assert.Equal(t, "disk full", ack.Reason)
}

func TestSendNoCollector(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Send(ctx, "127.0.0.1:1", pngFile("1.png"))
	assert.Error(t, err)
}

func TestCollectorSeveralEnvelopesOneConnection(t *testing.T) {
	sink := &recordingSink{}
	c, addr := startCollector(t, sink.save)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+Path, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return c.Peers() == 1 }, time.Second, 10*time.Millisecond)

	for _, name := range []string{"1.png", "bad name", "2.png"} {
		env := NewEnvelope(pngFile(name))
		require.NoError(t, conn.WriteJSON(env))
		var ack Ack
		require.NoError(t, conn.ReadJSON(&ack))
		assert.Equal(t, env.ID, ack.ID)
	}

	sink.mu.Lock()
	assert.Len(t, sink.files, 2)
	sink.mu.Unlock()

	conn.Close()
	assert.Eventually(t, func() bool { return c.Peers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCollectorCloseAllReleasesPads(t *testing.T) {
	c, addr := startCollector(t, (&recordingSink{}).save)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+Path, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Eventually(t, func() bool { return c.Peers() == 1 }, time.Second, 10*time.Millisecond)

	c.CloseAll()
	assert.Zero(t, c.Peers())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}

func TestEnvelopeFile(t *testing.T) {
	env := NewEnvelope(pngFile("9.png"))
	f, err := env.File()
	require.NoError(t, err)
	assert.Equal(t, "9.png", f.Name)

	env.Data = nil
	_, err = env.File()
	assert.Error(t, err)

	env = NewEnvelope(pngFile("9.png"))
	env.Data = make([]byte, MaxFileSize+1)
	_, err = env.File()
	assert.Error(t, err)
}

func TestOutgoingIP(t *testing.T) {
	assert.NotEmpty(t, OutgoingIP())
}
