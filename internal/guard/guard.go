// Package guard decides whether a candidate file read may proceed. It
// classifies the target, probes its size, applies the ordered read
// policy, and records every decision to an audit sink.
package guard

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/machinae/readgate/internal/audit"
	"github.com/machinae/readgate/internal/config"
)

// Guard evaluates read requests against a fixed policy. Construct with
// New; the zero value is not usable.
type Guard struct {
	limits config.Limits
	skip   map[string]struct{}
	sink   audit.Sink

	// probe is swappable so tests can assert it is not invoked on
	// skipped paths.
	probe func(string) (Metrics, error)
}

// New builds a Guard from configuration. A nil sink disables auditing.
func New(cfg *config.Config, sink audit.Sink) *Guard {
	skip := make(map[string]struct{}, len(cfg.Skip.Extensions))
	for _, ext := range cfg.Skip.Extensions {
		skip[strings.ToLower(ext)] = struct{}{}
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Guard{
		limits: cfg.Limits,
		skip:   skip,
		sink:   sink,
		probe:  Probe,
	}
}

// Check evaluates one read request and returns the decision. Infra
// failures (missing file, unreadable file) degrade to Allow; blocking on
// top of a file the read cannot open anyway only adds friction.
func (g *Guard) Check(sessionID string, req Request) Decision {
	ext := strings.ToLower(filepath.Ext(req.FilePath))
	if _, ok := g.skip[ext]; ok {
		// Binary/media content, line counts are meaningless here.
		return g.record(sessionID, req, Metrics{}, Decision{Action: ActionAllow, Token: TokenSkipExtension})
	}

	if _, err := os.Stat(req.FilePath); errors.Is(err, fs.ErrNotExist) {
		// Let the downstream read surface its own not-found error.
		return g.record(sessionID, req, Metrics{}, Decision{Action: ActionAllow, Token: TokenNotFound})
	}

	m, err := g.probe(req.FilePath)
	if err != nil {
		// Fail open, never fail closed on infrastructure errors.
		return g.record(sessionID, req, Metrics{}, Decision{Action: ActionAllow, Token: TokenProbeUnavailable})
	}

	return g.record(sessionID, req, m, Evaluate(req, m, g.limits))
}

func (g *Guard) record(sessionID string, req Request, m Metrics, d Decision) Decision {
	status := audit.StatusAllowed
	if d.Action == ActionBlock {
		status = audit.StatusBlocked
	}
	g.sink.Append(audit.Entry{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Status:    status,
		Lines:     m.Lines,
		Bytes:     m.Bytes,
		Reason:    d.Token,
		FilePath:  req.FilePath,
	})
	return d
}
