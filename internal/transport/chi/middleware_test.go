package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/basil-labs/basil/internal/logger"
)

func TestWideEvent_LevelAndRoute(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(zap.New(core)))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Debug("inside handler")
		if chi.URLParam(r, "id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	tests := []struct {
		path  string
		level zapcore.Level
	}{
		{"/items/1", zapcore.InfoLevel},
		{"/items/missing", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))
			if rr.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}

			entries := logs.TakeAll()
			if len(entries) != 2 {
				t.Fatalf("expected handler + request entries, got %d", len(entries))
			}
			if entries[0].ContextMap()["request_id"] == "" {
				t.Error("handler logger must carry request_id")
			}
			ev := entries[1]
			if ev.Level != tt.level {
				t.Errorf("level = %v, want %v", ev.Level, tt.level)
			}
			if got := ev.ContextMap()["route"]; got != "/items/{id}" {
				t.Errorf("route = %v", got)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	tests := map[int]zapcore.Level{
		200: zapcore.InfoLevel,
		204: zapcore.InfoLevel,
		400: zapcore.WarnLevel,
		499: zapcore.WarnLevel,
		502: zapcore.ErrorLevel,
	}
	for status, want := range tests {
		if got := levelFor(status); got != want {
			t.Errorf("levelFor(%d) = %v, want %v", status, got, want)
		}
	}
}
