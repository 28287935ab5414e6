// Package webfetch talks to the websites that visitors submit. It contains
// two collaborators with deliberately different failure contracts:
//
//   - Prober issues a bounded HEAD request and classifies the outcome; it is
//     a precondition gate that runs before any paid analysis work.
//   - Fetcher issues a bounded GET and extracts readable text; it never
//     fails outward, degrading to a placeholder so downstream analysis can
//     still run.
package webfetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// browserUA is sent on every outbound request; some sites refuse requests
// without a browser-like user agent.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ProbeResult is the classified outcome of a reachability probe. When
// Reachable is false, Reason carries a user-facing (Dutch) explanation
// distinguishing timeout, network failure, and non-2xx status.
type ProbeResult struct {
	Reachable bool
	Reason    string
}

// Prober checks whether a website answers at all before the expensive
// analysis pipeline is allowed to run.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// NewProber constructs a Prober with the given per-probe deadline.
func NewProber(timeout time.Duration) *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Probe issues a HEAD request to url and classifies the result:
//   - 2xx response: reachable.
//   - any other status: unreachable, reason includes the status code.
//   - timeout: unreachable, reason mentions the deadline.
//   - DNS / connection failure: unreachable, generic reason.
func (p *Prober) Probe(ctx context.Context, url string) ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return ProbeResult{Reachable: false, Reason: "Ongeldige URL"}
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ProbeResult{
				Reachable: false,
				Reason:    fmt.Sprintf("De website reageerde niet binnen %d seconden", int(p.timeout.Seconds())),
			}
		}
		return ProbeResult{
			Reachable: false,
			Reason:    "De website bestaat niet of is niet bereikbaar",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return ProbeResult{Reachable: true}
	}
	return ProbeResult{
		Reachable: false,
		Reason:    fmt.Sprintf("De website gaf status %d terug", resp.StatusCode),
	}
}

// isTimeout reports whether err represents an exceeded deadline rather than
// a hard network failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
