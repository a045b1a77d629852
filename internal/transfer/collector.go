package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"

	"signpad/internal/signature"
)

// Sink receives validated files. from is the peer address.
type Sink func(file signature.File, from string) error

// Collector accepts signatures from pads on the LAN.
type Collector struct {
	sink     Sink
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	peers map[string]*websocket.Conn
}

func NewCollector(sink Sink) *Collector {
	return &Collector{
		sink: sink,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 << 10,
			WriteBufferSize: 4 << 10,
			// pads are native apps, not browsers
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[string]*websocket.Conn),
	}
}

// Handler serves the websocket endpoint at Path.
func (c *Collector) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, c.serveWS)
	return mux
}

// Peers returns the number of connected pads.
func (c *Collector) Peers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.peers)
}

// ListenAndServe listens on port, advertises over mDNS and serves until ctx
// is done.
func (c *Collector) ListenAndServe(ctx context.Context, port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on %d: %w", port, err)
	}
	port = ln.Addr().(*net.TCPAddr).Port

	adv, err := advertise(port)
	if err != nil {
		// discovery is a convenience; pads can still be pointed at us
		log.Printf("[COLLECTOR] mDNS disabled: %v", err)
	} else {
		defer adv.Shutdown()
	}

	srv := &http.Server{Handler: c.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		// Shutdown leaves hijacked connections alone
		c.CloseAll()
	}()

	log.Printf("[COLLECTOR] listening on %s:%d", OutgoingIP(), port)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *Collector) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[COLLECTOR] upgrade %s: %v", r.RemoteAddr, err)
		return
	}
	addr := conn.RemoteAddr().String()
	c.add(addr, conn)
	defer c.remove(addr)
	defer conn.Close()

	conn.SetReadLimit(MaxFileSize * 2)
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[COLLECTOR] %s disconnected: %v", addr, err)
			}
			return
		}
		ack := c.accept(env, addr)
		if err := conn.WriteJSON(ack); err != nil {
			log.Printf("[COLLECTOR] ack to %s: %v", addr, err)
			return
		}
	}
}

func (c *Collector) accept(env Envelope, from string) Ack {
	file, err := env.File()
	if err != nil {
		log.Printf("[COLLECTOR] rejected %s from %s: %v", env.ID, from, err)
		return Ack{ID: env.ID, Status: StatusRejected, Reason: err.Error()}
	}
	if c.sink != nil {
		if err := c.sink(file, from); err != nil {
			log.Printf("[COLLECTOR] storing %s from %s: %v", file.Name, from, err)
			return Ack{ID: env.ID, Status: StatusFailed, Reason: err.Error()}
		}
	}
	log.Printf("[COLLECTOR] received %s (%d bytes) from %s", file.Name, file.Size(), from)
	return Ack{ID: env.ID, Status: StatusOK}
}

// CloseAll sends a going-away close frame to every connected pad and drops
// the connections.
func (c *Collector) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "collector shutting down")
	for addr, conn := range c.peers {
		if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
			log.Printf("[COLLECTOR] close %s: %v", addr, err)
		}
		conn.Close()
		delete(c.peers, addr)
	}
}

func (c *Collector) add(addr string, conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peers[addr] = conn
	log.Printf("[COLLECTOR] pad connected from %s", addr)
}

func (c *Collector) remove(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.peers, addr)
}

func advertise(port int) (*mdns.Server, error) {
	host, err := hostname()
	if err != nil {
		return nil, err
	}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, []string{"SignPad collector"})
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	return server, nil
}
