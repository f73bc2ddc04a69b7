package httpclient

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/angeloszaimis/env-resolver/config"
)

const idleConnTimeout = 60 * time.Second

// New returns a client whose dial and TLS handshake are bounded by
// ConnectTimeout. ReadTimeout bounds the wait for response headers and every
// read from the connection afterwards, so a stalled body fails too.
// Zero values fall back to config.DefaultTimeout.
func New(settings config.ClientSettings) *http.Client {
	connect := settings.ConnectTimeout
	if connect <= 0 {
		connect = config.DefaultTimeout
	}
	read := settings.ReadTimeout
	if read <= 0 {
		read = config.DefaultTimeout
	}

	dialer := &net.Dialer{
		Timeout:   connect,
		KeepAlive: 30 * time.Second,
	}

	dial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return &deadlineConn{Conn: conn, timeout: read}, nil
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dial,
		TLSHandshakeTimeout:   connect,
		ResponseHeaderTimeout: read,
		IdleConnTimeout:       idleConnTimeout,
		MaxIdleConns:          100,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{Transport: transport}
}

// deadlineConn pushes the read deadline forward before each Read.
// Idle pooled connections also hit the deadline and are closed after timeout.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}
