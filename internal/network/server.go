package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/engine"
)

// Request is one newline-delimited JSON command
type Request struct {
	Query string `json:"query"`
}

// Response answers one Request
type Response struct {
	Message string     `json:"message"`
	Columns []string   `json:"columns"`
	Rows    []data.Row `json:"rows"`
	Error   string     `json:"error,omitempty"`
}

// Server is the TCP database server.
// Connections are served concurrently but commands run one at a time.
type Server struct {
	eng *engine.Engine
	mu  sync.Mutex
}

// NewServer creates a server executing commands on eng
func NewServer(eng *engine.Engine) *Server {
	return &Server{eng: eng}
}

// ListenAndServe listens on addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}
	slog.Info("TCP server listening", slog.String("addr", listener.Addr().String()))
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
// The listener is closed on return.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-egctx.Done()
		return listener.Close()
	})

	eg.Go(func() error {
		var conns sync.WaitGroup
		defer conns.Wait()
		for {
			conn, err := listener.Accept()
			if err != nil {
				if egctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return nil
				}
				slog.Error("Failed to accept connection", slog.Any("error", err))
				continue
			}
			conns.Add(1)
			go func() {
				defer conns.Done()
				s.ServeConn(egctx, conn)
			}()
		}
	})

	return eg.Wait()
}

// ServeConn reads requests from conn until EOF, an "exit" query,
// an undecodable request or ctx cancellation
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	remote := "pipe"
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	slog.Debug("client connected", slog.String("remote", remote))

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				return // Connection closed gracefully
			}
			slog.Error("decode error", slog.String("remote", remote), slog.Any("error", err))

			// Send error back to client
			_ = encoder.Encode(&Response{Error: fmt.Sprintf("Invalid request format: %v", err)})
			return
		}

		query := strings.TrimSpace(req.Query)
		if strings.EqualFold(query, "exit") {
			slog.Debug("client disconnected", slog.String("remote", remote))
			return
		}

		if err := encoder.Encode(s.execute(query)); err != nil {
			slog.Error("encode error", slog.String("remote", remote), slog.Any("error", err))
			return
		}
	}
}

func (s *Server) execute(query string) *Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.eng.Execute(query)
	if err != nil {
		return &Response{Error: err.Error()}
	}
	return &Response{
		Message: result.Message,
		Columns: result.Columns,
		Rows:    result.Rows,
	}
}
