package proxy

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"parcel-tracker/internal/core/logger"

	"github.com/elazarl/goproxy"
	"go.uber.org/zap"
)

// Forwarder is a local, unauthenticated proxy that tunnels every connection through
// an authenticated upstream proxy. Chromium cannot pass proxy credentials on its
// command line, so the headless fetcher points the browser here instead.
type Forwarder struct {
	upstream Settings
	logger   *zap.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewForwarder creates a forwarder for the given upstream proxy.
func NewForwarder(upstream Settings) (*Forwarder, error) {
	if !upstream.HasProxy() {
		return nil, errors.New("upstream proxy is not configured")
	}

	return &Forwarder{
		upstream: upstream,
		logger:   logger.Get(),
	}, nil
}

// Start listens on a random loopback port and returns the address the browser should use.
func (f *Forwarder) Start() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listener != nil {
		return f.addr(), nil
	}

	p := goproxy.NewProxyHttpServer()
	p.ConnectDial = f.dialUpstream
	p.Tr = &http.Transport{
		Dial: f.dialUpstream,
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to find available port: %w", err)
	}

	srv := &http.Server{
		Handler:           p,
		ReadHeaderTimeout: 10 * time.Second,
	}
	f.listener = listener
	f.server = srv

	// Stop may clear f.server before this goroutine runs.
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("Proxy forwarder stopped", zap.Error(err))
		}
	}()

	f.logger.Debug("Proxy forwarder started",
		zap.String("local_addr", f.addr()),
		zap.String("upstream", f.upstream.HostPort()),
	)

	return f.addr(), nil
}

// Stop shuts the forwarder down. It is safe to call on a forwarder that never started.
func (f *Forwarder) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listener == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := f.server.Shutdown(ctx)
	if err != nil {
		f.listener.Close()
	}

	f.listener = nil
	f.server = nil
	return err
}

// Running reports whether the forwarder is accepting connections.
func (f *Forwarder) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listener != nil
}

func (f *Forwarder) addr() string {
	return "http://" + f.listener.Addr().String()
}

// dialUpstream opens a CONNECT tunnel to addr through the upstream proxy.
func (f *Forwarder) dialUpstream(network, addr string) (net.Conn, error) {
	upstreamHost := f.upstream.URL().Host

	conn, err := net.DialTimeout("tcp", upstreamHost, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to upstream proxy %s: %w", upstreamHost, err)
	}

	connectReq := fmt.Sprintf("CONNECT %s HTTP/1.1\r\nHost: %s\r\n", addr, addr)
	if f.upstream.HasCredentials() {
		credentials := base64.StdEncoding.EncodeToString([]byte(f.upstream.Username + ":" + f.upstream.Password))
		connectReq += "Proxy-Authorization: Basic " + credentials + "\r\n"
	}
	connectReq += "\r\n"

	if _, err := conn.Write([]byte(connectReq)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send CONNECT request: %w", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read CONNECT response: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("upstream proxy CONNECT failed with status: %d", resp.StatusCode)
	}

	f.logger.Debug("CONNECT tunnel established", zap.String("network", network), zap.String("target", addr))
	return conn, nil
}
