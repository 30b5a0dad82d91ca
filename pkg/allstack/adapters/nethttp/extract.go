// extract.go snapshots net/http requests into RequestData.

package nethttp

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/tech-sea-sa/allstack-go/pkg/allstack"
)

const defaultMaxBodyBytes = 64 << 10

// extractRequest snapshots the request into RequestData. The body is read
// up to limit bytes and restored so the handler sees it intact.
func extractRequest(r *http.Request, limit int64) allstack.RequestData {
	host, port := splitHostPort(r)

	return allstack.RequestData{
		Method:    r.Method,
		URL:       requestURL(r),
		Host:      host,
		Port:      port,
		Protocol:  r.Proto,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Headers:   r.Header,
		Query:     r.URL.Query(),
		Body:      snapshotBody(r, limit),
	}
}

// requestURL reconstructs the full URL the client requested.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// splitHostPort separates r.Host into host and port, defaulting the port
// by scheme when the Host header carries none.
func splitHostPort(r *http.Request) (string, int) {
	host, portText, err := net.SplitHostPort(r.Host)
	if err != nil {
		if r.TLS != nil {
			return r.Host, 443
		}
		return r.Host, 80
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		port = 0
	}
	return host, port
}

// clientIP resolves the originating address, preferring forwarding
// headers set by proxies over the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if realIP := r.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type readCloser struct {
	io.Reader
	io.Closer
}

// snapshotBody reads up to limit bytes of a JSON body for capture and
// restores the request body for the handler. Non-JSON bodies and bodies
// that do not decode within the limit are not captured.
func snapshotBody(r *http.Request, limit int64) any {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, limit))
	r.Body = readCloser{io.MultiReader(bytes.NewReader(data), r.Body), r.Body}
	if err != nil {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil
	}
	return decoded
}
