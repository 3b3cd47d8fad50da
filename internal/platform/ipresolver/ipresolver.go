package ipresolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
)

// HTTPResolver queries an ipify-compatible endpoint for the server's public
// address. Callers treat any failure as the "unknown" sentinel, so errors
// here carry detail for logs only.
type HTTPResolver struct {
	endpoint string
	client   *http.Client
}

// New creates a resolver against the given endpoint.
func New(endpoint string, timeout time.Duration) *HTTPResolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPResolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

var _ portsplat.IPResolver = (*HTTPResolver)(nil)

type ipifyResponse struct {
	IP string `json:"ip"`
}

// An address plus JSON framing fits well under this.
const maxResponseBytes = 512

// ResolvePublicIP performs the lookup. The endpoint may answer JSON
// ({"ip":"..."}) or a bare address in plain text.
func (r *HTTPResolver) ResolvePublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build IP lookup request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("IP lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("IP lookup returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read IP lookup response: %w", err)
	}

	var body ipifyResponse
	ip := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		ip = strings.TrimSpace(body.IP)
	} else if addr := strings.TrimSpace(string(raw)); net.ParseIP(addr) != nil {
		ip = addr
	} else {
		return "", fmt.Errorf("IP lookup response is neither JSON nor a bare address")
	}
	if ip == "" {
		return "", fmt.Errorf("IP lookup returned an empty address")
	}
	return ip, nil
}
