package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		wantReuse bool
	}{
		{name: "generates when absent"},
		{name: "reuses well-formed header", header: "abc-123-def-456", wantReuse: true},
		{name: "rejects malformed header", header: "bad id\nwith newline"},
		{name: "rejects short header", header: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := logger.NewTestLogger(t)

			var seenTrace string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenTrace = shared.GetTraceID(r.Context())
				logger.FromContext(r.Context()).Info("inside handler")
			})

			req := httptest.NewRequest(http.MethodGet, "/user", nil)
			if tt.header != "" {
				req.Header.Set(shared.TraceIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			NewTraceMiddleware(log)(next).ServeHTTP(rec, req)

			require.NotEmpty(t, seenTrace)
			assert.Equal(t, seenTrace, rec.Header().Get(shared.TraceIDHeader))
			if tt.wantReuse {
				assert.Equal(t, tt.header, seenTrace)
			} else {
				assert.Len(t, seenTrace, shared.TraceIDLength*2)
			}

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.NotEmpty(t, entries)
			for _, e := range entries {
				assert.Equal(t, seenTrace, e["trace_id"])
			}
		})
	}
}
