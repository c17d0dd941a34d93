/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package telemetry reports opt-in anonymous usage of the authoring workflow:
// deck mutations and artifact exports, plus optional crash uploads. Events
// carry counts and positions only, never slide text or image URLs.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	applog "slowreveal/internal/log"
	"slowreveal/internal/version"
)

// Config holds runtime configuration for telemetry and crash uploads.
// All telemetry is strictly opt‑in and disabled by default.
//
// Environment variables (read by FromEnv):
// - SRB_TELEMETRY_OPT_IN: "1", "true", "yes" to enable metrics
// - SRB_TELEMETRY_URL: base URL to POST JSON events to (e.g., https://example.com/telemetry)
// - SRB_CRASH_UPLOAD_URL: URL to POST crash reports to
// - SRB_TELEMETRY_TIMEOUT_MS: optional request timeout, default 1500ms
// - SRB_TELEMETRY_DEBUG: if set, logs event send attempts
//
// If no URLs are set, events are dropped (no‑ops), even if opt‑in is true.
type Config struct {
	OptIn        bool
	EventsURL    string
	CrashURL     string
	Timeout      time.Duration
	DebugLogging bool
}

func FromEnv() Config {
	optIn := parseBool(os.Getenv("SRB_TELEMETRY_OPT_IN"))
	cfg := Config{
		OptIn:        optIn,
		EventsURL:    strings.TrimSpace(os.Getenv("SRB_TELEMETRY_URL")),
		CrashURL:     strings.TrimSpace(os.Getenv("SRB_CRASH_UPLOAD_URL")),
		Timeout:      1500 * time.Millisecond,
		DebugLogging: os.Getenv("SRB_TELEMETRY_DEBUG") != "",
	}
	if ms := strings.TrimSpace(os.Getenv("SRB_TELEMETRY_TIMEOUT_MS")); ms != "" {
		if v, err := time.ParseDuration(ms + "ms"); err == nil {
			cfg.Timeout = v
		}
	}
	return cfg
}

func parseBool(v string) bool {
	s := strings.ToLower(strings.TrimSpace(v))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// DeckAction names a slide-deck mutation.
type DeckAction string

const (
	SlideAdded       DeckAction = "slide_added"
	SlideUpdated     DeckAction = "slide_updated"
	SlideRemoved     DeckAction = "slide_removed"
	SlidesReordered  DeckAction = "slides_reordered"
	ProjectRestarted DeckAction = "project_restarted"
	ProjectDeleted   DeckAction = "project_deleted"
)

// eventBase carries the fields every event shares.
type eventBase struct {
	Name    string `json:"name"`
	TS      string `json:"ts"`
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

func newBase(name string) eventBase {
	return eventBase{
		Name:    name,
		TS:      time.Now().UTC().Format(time.RFC3339Nano),
		Version: version.String(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// deckEvent records one deck mutation: the position it touched and the
// resulting deck size. Index is -1 for whole-deck actions.
type deckEvent struct {
	eventBase
	Index  int `json:"index"`
	Slides int `json:"slides"`
}

// exportEvent records one artifact render and the deck size it covered.
type exportEvent struct {
	eventBase
	Format string `json:"format"`
	Slides int    `json:"slides"`
}

// Client is a minimal async sender; it drops events silently on errors.
// It never blocks the UI; channel is bounded.
type Client struct {
	cfg    Config
	log    *slog.Logger
	cli    *http.Client
	q      chan any
	once   sync.Once
	closed chan struct{}
}

var defaultClient *Client
var defaultOnce sync.Once

// InitDefault initializes the package‑level default client from env when first used.
func InitDefault() {
	defaultOnce.Do(func() {
		NewDefault(FromEnv())
	})
}

// NewDefault creates and installs the default client with cfg.
func NewDefault(cfg Config) {
	defaultClient = New(cfg)
}

// New constructs a client.
func New(cfg Config) *Client {
	l := applog.WithComponent("telemetry")
	c := &Client{
		cfg:    cfg,
		log:    l,
		cli:    &http.Client{Timeout: cfg.Timeout},
		q:      make(chan any, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether anonymous telemetry is enabled and an endpoint is configured.
func (c *Client) Enabled() bool { return c != nil && c.cfg.OptIn && c.cfg.EventsURL != "" }

// Enabled reports whether anonymous telemetry is enabled using the default client.
func Enabled() bool {
	InitDefault()
	return defaultClient.Enabled()
}

// Deck queues a deck-mutation event if enabled. Safe to call from anywhere.
func (c *Client) Deck(a DeckAction, index, slides int) {
	if !c.Enabled() || a == "" {
		return
	}
	c.enqueue(deckEvent{eventBase: newBase(string(a)), Index: index, Slides: slides})
}

// Deck using default client.
func Deck(a DeckAction, index, slides int) { InitDefault(); defaultClient.Deck(a, index, slides) }

// Export queues an artifact-export event if enabled.
func (c *Client) Export(format string, slides int) {
	if !c.Enabled() || format == "" {
		return
	}
	c.enqueue(exportEvent{eventBase: newBase("export_" + format), Format: format, Slides: slides})
}

// Export using default client.
func Export(format string, slides int) { InitDefault(); defaultClient.Export(format, slides) }

func (c *Client) enqueue(e any) {
	select {
	case c.q <- e:
	default:
		// drop if queue full
	}
}

// Flush waits briefly for the queue to drain.
func (c *Client) Flush(ctx context.Context) {
	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		if len(c.q) == 0 || time.Now().After(deadline) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(25 * time.Millisecond):
		}
	}
}

// Close stops background goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			c.send(item)
		}
	}
}

func (c *Client) send(item any) {
	buf, _ := json.Marshal(item)
	req, err := http.NewRequest(http.MethodPost, c.cfg.EventsURL, bytes.NewReader(buf))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("telemetry send failed", slog.Any("err", err))
		}
		return
	}
	_ = resp.Body.Close()
	if c.cfg.DebugLogging {
		c.log.Debug("telemetry event sent")
	}
}

// UploadCrash posts an already‑serialized crash report to the configured crash URL if opt‑in.
func (c *Client) UploadCrash(report []byte) {
	if c == nil || !c.cfg.OptIn || c.cfg.CrashURL == "" {
		return
	}
	go func(b []byte) {
		req, err := http.NewRequest(http.MethodPost, c.cfg.CrashURL, bytes.NewReader(b))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		resp, err := c.cli.Do(req)
		if err != nil {
			if c.cfg.DebugLogging {
				c.log.Debug("crash upload failed", slog.Any("err", err))
			}
			return
		}
		_ = resp.Body.Close()
		if c.cfg.DebugLogging {
			c.log.Debug("crash report uploaded")
		}
	}(append([]byte(nil), report...))
}

// UploadCrash using default client.
func UploadCrash(report []byte) { InitDefault(); defaultClient.UploadCrash(report) }
