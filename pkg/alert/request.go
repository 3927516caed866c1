package alert

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// RequestInfo describes the inbound HTTP request being served when a record
// was logged. A nil *RequestInfo means no request was in flight.
type RequestInfo struct {
	ServerIP string
	URL      string
	Method   string
}

type requestCtxKey struct{}

// RequestInfoFrom captures the server address, full URL and method of r.
func RequestInfoFrom(r *http.Request) *RequestInfo {
	if r == nil {
		return nil
	}
	return &RequestInfo{
		ServerIP: serverIP(r),
		URL:      fullURL(r),
		Method:   r.Method,
	}
}

// WithRequest returns a context carrying r's RequestInfo.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestCtxKey{}, RequestInfoFrom(r))
}

// RequestFromContext returns the RequestInfo stored by WithRequest, or nil.
func RequestFromContext(ctx context.Context) *RequestInfo {
	if ctx == nil {
		return nil
	}
	ri, _ := ctx.Value(requestCtxKey{}).(*RequestInfo)
	return ri
}

// Middleware stores the current request in the request context so that
// records logged with that context carry server info.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context(), r)))
	})
}

func serverIP(r *http.Request) string {
	addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr)
	if !ok || addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

func fullURL(r *http.Request) string {
	if r.URL != nil && r.URL.IsAbs() {
		return r.URL.String()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); p != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
	}
	uri := r.RequestURI
	if uri == "" && r.URL != nil {
		uri = r.URL.RequestURI()
	}
	if r.Host == "" {
		return uri
	}
	return scheme + "://" + r.Host + uri
}
