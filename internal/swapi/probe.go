package swapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultProbeTimeout = 3 * time.Second

// Probe implements domain.ConnectivityProbe by issuing a HEAD request
// against the catalog root. Any HTTP answer counts as reachable; only
// transport failures (DNS, refused, timeout) count as offline.
type Probe struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewProbe creates a connectivity probe for targetURL
func NewProbe(targetURL string, timeout time.Duration, logger *slog.Logger) *Probe {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Probe{
		url:    strings.TrimRight(targetURL, "/") + "/",
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// IsReachable reports whether the catalog host answered within the timeout
func (p *Probe) IsReachable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), p.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.logger.Warn("probe request invalid", "url", p.url, "error", err)
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Info("catalog unreachable", "url", p.url, "error", err)
		return false
	}
	resp.Body.Close()
	return true
}

// StaticProbe is a fixed-answer probe, used for forced offline mode and tests
type StaticProbe bool

// IsReachable returns the fixed answer
func (s StaticProbe) IsReachable() bool { return bool(s) }
