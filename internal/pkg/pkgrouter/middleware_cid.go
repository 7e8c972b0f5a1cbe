package pkgrouter

import (
	"net/http"
	"strings"

	"github.com/MidasLamb/banking-exercise/internal/pkg/pkglog"
	"github.com/MidasLamb/banking-exercise/internal/pkg/pkguid"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is read when a proxy sets it instead of HeaderCorrelationID.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// cleanCorrelationID drops values that could forge log lines and caps the
// length of the rest.
func cleanCorrelationID(v string) string {
	v = strings.TrimSpace(v)
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

func middlewareCorrelationID(uid pkguid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := cleanCorrelationID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = cleanCorrelationID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && uid != nil {
				cid = uid.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(pkglog.WithCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
