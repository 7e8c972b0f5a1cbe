package pkgrouter

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/MidasLamb/banking-exercise/internal/pkg/pkgerror"
)

func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:errorlint // sentinel panic value from net/http
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(r.Context(), "panic while serving request",
				"panic", rvr,
				"stack", appFrames(debug.Stack()),
			)

			writeJSON(w, errorResponse{
				Message: "internal server error",
				Code:    pkgerror.CodeInternal.String(),
			}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// appFrames keeps the file:line frames of this module from a goroutine
// stack, trimmed to the path below internal/.
func appFrames(stack []byte) []string {
	var frames []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}
		frame := line[idx+1:]
		if sp := strings.IndexByte(frame, ' '); sp != -1 {
			frame = frame[:sp]
		}
		frames = append(frames, frame)
	}
	return frames
}
