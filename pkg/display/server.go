package display

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/quantvis/livechart/pkg/chart"
)

var log = logrus.WithField("component", "display")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// the server binds to loopback only
		return true
	},
}

// frameBuffer bounds the per-client outbound queue. A client that falls
// this far behind starts skipping frames instead of stalling the
// render loop.
const frameBuffer = 8

// wsClient owns one websocket connection. All writes go through the
// send channel and a single writer goroutine, the websocket allows at
// most one concurrent writer.
type wsClient struct {
	conn *websocket.Conn
	send chan *chart.Frame
}

// Server shows rendered frames in a browser window: it serves the
// viewer page and pushes every broadcast frame to the connected
// websocket clients. A late client receives the latest frame on
// connect.
type Server struct {
	Title string

	mu        sync.Mutex
	lastFrame *chart.Frame
	clients   map[*wsClient]struct{}

	srv *http.Server
}

func NewServer(title string) *Server {
	return &Server{
		Title:   title,
		clients: make(map[*wsClient]struct{}),
	}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:    []string{"*"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
		AllowMethods:    []string{"GET"},
		AllowWebSockets: true,
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/api/frame", func(c *gin.Context) {
		s.mu.Lock()
		frame := s.lastFrame
		s.mu.Unlock()

		if frame == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no frame rendered yet"})
			return
		}

		c.JSON(http.StatusOK, frame)
	})

	r.GET("/ws", s.handleWebSocket)

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(renderPage(s.Title)))
	})

	return r
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade failed")
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan *chart.Frame, frameBuffer),
	}

	// queue the replay before the client is visible to Broadcast; the
	// freshly made buffer always has room for it
	s.mu.Lock()
	if s.lastFrame != nil {
		client.send <- s.lastFrame
	}
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(client)
	go s.readLoop(client)
}

// writeLoop is the only writer of the client's connection.
func (s *Server) writeLoop(client *wsClient) {
	for frame := range client.send {
		if err := client.conn.WriteJSON(frame); err != nil {
			log.WithError(err).Warn("dropping websocket client")
			s.removeClient(client)
			return
		}
	}
}

// readLoop discards incoming messages, the client never sends any; it
// only notices the close.
func (s *Server) readLoop(client *wsClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			s.removeClient(client)
			return
		}
	}
}

// removeClient unregisters the client and closes its send channel,
// ending the write loop. Safe to call from both loops, the channel is
// only closed while the client is still registered.
func (s *Server) removeClient(client *wsClient) {
	s.mu.Lock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
	}
	s.mu.Unlock()

	_ = client.conn.Close()
}

// Broadcast queues the frame for every connected client and keeps it
// for clients connecting later. A client with a full queue skips the
// frame rather than blocking the caller.
func (s *Server) Broadcast(frame *chart.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastFrame = frame

	for client := range s.clients {
		select {
		case client.send <- frame:
		default:
			log.Debugf("client queue full, skipping frame %d", frame.Step)
		}
	}
}

// RunWithListener serves until the listener fails or ctx is canceled.
func (s *Server) RunWithListener(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown error")
		}
	}()

	if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close disconnects the clients and stops the server. The chart calls
// this when it is closed; no frame is shown afterwards.
func (s *Server) Close() error {
	s.mu.Lock()
	for client := range s.clients {
		close(client.send)
		_ = client.conn.Close()
	}
	s.clients = make(map[*wsClient]struct{})
	s.mu.Unlock()

	if s.srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
