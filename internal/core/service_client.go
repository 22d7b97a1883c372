package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
	"github.com/google/uuid"
)

// Agent identification sent with every service request. The pair is fixed per
// integration release, not configurable.
const (
	AgentType    = "ci-publisher"
	AgentVersion = "2.0"
)

// agentRoute is the fixed API route segment appended to the service base URL.
const agentRoute = "agent"

// Service request types
const (
	requestCheckPolicyCompliance = "CHECK_POLICY_COMPLIANCE"
	requestUpdateInventory       = "UPDATE"
)

// serviceStatusSuccess is the envelope status the service returns on success.
const serviceStatusSuccess = 1

// ComplianceClient is the remote compliance/inventory service consumed by the
// pipeline. A client is exclusively owned by one pipeline run: at most one
// check-then-update sequence, then Shutdown on every exit path.
type ComplianceClient interface {
	// CheckPolicyCompliance evaluates the inventory against the organization's
	// policies. forceCheckAll checks every library, not only newly introduced ones.
	CheckPolicyCompliance(ctx context.Context, orgToken, product, productVersion string, inventory []types.ProjectInfo, forceCheckAll bool) (*types.ComplianceVerdict, error)

	// UpdateInventory reports the build's inventory to the service.
	UpdateInventory(ctx context.Context, orgToken, requesterEmail, product, productVersion string, inventory []types.ProjectInfo) (*types.InventoryUpdateResult, error)

	// Shutdown releases pooled connections. Safe to call exactly once.
	Shutdown()
}

// ClientFactory constructs a ComplianceClient for one run's effective
// configuration. Injected into the orchestrator so tests can substitute mocks.
type ClientFactory func(cfg types.EffectiveConfig) ComplianceClient

// Compile-time interface satisfaction check.
var _ ComplianceClient = (*HTTPComplianceClient)(nil)

// HTTPComplianceClient talks to the compliance service over HTTP with the
// run's timeout and proxy settings applied.
type HTTPComplianceClient struct {
	httpClient *http.Client
	transport  *http.Transport
	serviceURL string
}

// NewComplianceClient creates an HTTPComplianceClient from resolved run
// configuration. Blocking calls are bounded by the configured connection
// timeout; the proxy, once configured, is applied unconditionally.
func NewComplianceClient(cfg types.EffectiveConfig) *HTTPComplianceClient {
	transport := &http.Transport{}
	if cfg.Proxy != nil {
		proxyURL := &url.URL{
			Scheme: "http",
			Host:   fmt.Sprintf("%s:%d", cfg.Proxy.Host, cfg.Proxy.Port),
		}
		if cfg.Proxy.UserName != "" || cfg.Proxy.Password != "" {
			proxyURL.User = url.UserPassword(cfg.Proxy.UserName, cfg.Proxy.Password)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := cfg.ConnectionTimeout
	if timeout <= 0 {
		timeout = DefaultConnectionTimeout
	}

	return &HTTPComplianceClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(timeout) * time.Second,
		},
		transport:  transport,
		serviceURL: NormalizeServiceURL(cfg.ServiceURL),
	}
}

// NormalizeServiceURL appends the fixed agent route to a configured base URL,
// ensuring exactly one path separator between them. A blank URL stays blank.
func NormalizeServiceURL(baseURL string) string {
	if strings.TrimSpace(baseURL) == "" {
		return baseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + agentRoute
}

// serviceRequest is the JSON envelope for both remote operations.
type serviceRequest struct {
	Type           string `json:"type"`
	Agent          string `json:"agent"`
	AgentVersion   string `json:"agentVersion"`
	RequestID      string `json:"requestId"`
	TimeStamp      int64  `json:"timeStamp"`
	Token          string `json:"token"`
	Product        string `json:"product,omitempty"`
	ProductVersion string `json:"productVersion,omitempty"`
	RequesterEmail string `json:"requesterEmail,omitempty"`

	ForceCheckAllDependencies bool `json:"forceCheckAllDependencies,omitempty"`

	Projects []types.ProjectInfo `json:"projects"`
}

// serviceResponse is the JSON envelope for service replies. Data carries the
// operation-specific payload when Status indicates success.
type serviceResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CheckPolicyCompliance implements ComplianceClient
func (c *HTTPComplianceClient) CheckPolicyCompliance(ctx context.Context, orgToken, product, productVersion string, inventory []types.ProjectInfo, forceCheckAll bool) (*types.ComplianceVerdict, error) {
	req := serviceRequest{
		Type:                      requestCheckPolicyCompliance,
		Token:                     orgToken,
		Product:                   product,
		ProductVersion:            productVersion,
		ForceCheckAllDependencies: forceCheckAll,
		Projects:                  inventory,
	}

	var verdict types.ComplianceVerdict
	if err := c.call(ctx, "checkPolicyCompliance", req, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// UpdateInventory implements ComplianceClient
func (c *HTTPComplianceClient) UpdateInventory(ctx context.Context, orgToken, requesterEmail, product, productVersion string, inventory []types.ProjectInfo) (*types.InventoryUpdateResult, error) {
	req := serviceRequest{
		Type:           requestUpdateInventory,
		Token:          orgToken,
		RequesterEmail: requesterEmail,
		Product:        product,
		ProductVersion: productVersion,
		Projects:       inventory,
	}

	var result types.InventoryUpdateResult
	if err := c.call(ctx, "update", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shutdown implements ComplianceClient
func (c *HTTPComplianceClient) Shutdown() {
	c.transport.CloseIdleConnections()
}

// call posts one request envelope and decodes the payload into out. A non-2xx
// HTTP status or a non-success envelope status yields a ServiceError;
// transport failures surface as-is.
func (c *HTTPComplianceClient) call(ctx context.Context, operation string, payload serviceRequest, out interface{}) error {
	payload.Agent = AgentType
	payload.AgentVersion = AgentVersion
	payload.RequestID = uuid.NewString()
	payload.TimeStamp = time.Now().UnixMilli()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", AgentType+"/"+AgentVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Operation: operation, Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var envelope serviceResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}

	if envelope.Status != serviceStatusSuccess {
		return &ServiceError{Operation: operation, Code: envelope.Status, Message: envelope.Message}
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", operation, err)
	}
	return nil
}
