package net

import (
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/mationai/spe/internal/hub"
	"github.com/mationai/spe/internal/net/ws"
	"github.com/mationai/spe/internal/observability"
	"github.com/mationai/spe/internal/scene"
	"github.com/mationai/spe/internal/telemetry"
	"github.com/mationai/spe/internal/world"
	"github.com/mationai/spe/logging"
)

const maxSceneBytes = 1 << 20

type HTTPHandlerConfig struct {
	Logger        telemetry.Logger
	Metrics       *logging.Metrics
	Observability observability.Config
}

func NewHTTPHandler(h *hub.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		status := "ok"
		diag := h.Diagnostics()
		if diag.Halted != "" {
			status = "halted"
		}
		payload := struct {
			Status     string            `json:"status"`
			ServerTime int64             `json:"serverTime"`
			Hub        hub.Diagnostics   `json:"hub"`
			Metrics    map[string]uint64 `json:"metrics,omitempty"`
		}{
			Status:     status,
			ServerTime: time.Now().UnixMilli(),
			Hub:        diag,
			Metrics:    cfg.Metrics.Snapshot(),
		}
		writeJSON(w, nethttp.StatusOK, payload)
	})

	mux.HandleFunc("/world/snapshot", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, nethttp.StatusOK, h.Snapshot())
	})

	mux.HandleFunc("/world/reset", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		var body []byte
		if r.Body != nil {
			defer r.Body.Close()
			data, err := io.ReadAll(io.LimitReader(r.Body, maxSceneBytes+1))
			if err != nil {
				httpError(w, "failed to read payload", nethttp.StatusBadRequest)
				return
			}
			if len(data) > maxSceneBytes {
				httpError(w, "scene too large", nethttp.StatusRequestEntityTooLarge)
				return
			}
			body = data
		}

		var err error
		if len(strings.TrimSpace(string(body))) == 0 {
			err = h.Restart()
		} else {
			var file scene.File
			file, err = scene.Parse(body, formatFor(r))
			if err == nil {
				err = h.Reset(file)
			}
		}
		if err != nil {
			logger.Printf("scene reset rejected: %v", err)
			httpError(w, err.Error(), statusFor(err))
			return
		}

		current := h.Scene()
		response := struct {
			Status string `json:"status"`
			Scene  string `json:"scene"`
			Bodies int    `json:"bodies"`
		}{
			Status: "ok",
			Scene:  current.Name,
			Bodies: len(h.Snapshot().Bodies),
		}
		writeJSON(w, nethttp.StatusOK, response)
	})

	wsHandler := ws.NewHandler(h, ws.HandlerConfig{Logger: logger})
	mux.HandleFunc("/ws", wsHandler.Handle)

	obs := cfg.Observability.Normalized()
	if obs.EnablePprof {
		prefix := obs.PprofPrefix
		mux.HandleFunc(prefix, pprof.Index)
		mux.HandleFunc(prefix+"cmdline", pprof.Cmdline)
		mux.HandleFunc(prefix+"profile", pprof.Profile)
		mux.HandleFunc(prefix+"symbol", pprof.Symbol)
		mux.HandleFunc(prefix+"trace", pprof.Trace)
		logger.Printf("pprof handlers mounted at %s", prefix)
	}

	return mux
}

func formatFor(r *nethttp.Request) scene.Format {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.Contains(contentType, "yaml") {
		return scene.FormatYAML
	}
	return scene.FormatJSON
}

func statusFor(err error) int {
	var inv *world.InvariantError
	switch {
	case errors.As(err, &inv):
		return nethttp.StatusInternalServerError
	case errors.Is(err, scene.ErrInvalidScene),
		errors.Is(err, world.ErrUnknownGroup),
		errors.Is(err, world.ErrDuplicateBody),
		errors.Is(err, world.ErrDuplicateGroup),
		errors.Is(err, world.ErrZeroMass),
		errors.Is(err, world.ErrInvalidMass),
		errors.Is(err, world.ErrNegativeExtent),
		errors.Is(err, world.ErrNonFiniteExtent),
		errors.Is(err, world.ErrUnknownBody):
		return nethttp.StatusUnprocessableEntity
	}
	return nethttp.StatusBadRequest
}

func writeJSON(w nethttp.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
