package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cloudllm-ai/cloudllm-go/internal/errtax"
	"github.com/cloudllm-ai/cloudllm-go/pkg/models"
)

// DefaultRemoteCacheTTL is how long a Remote protocol trusts its last
// list_tools response before refetching.
const DefaultRemoteCacheTTL = 300 * time.Second

// Remote is a Protocol backed by an HTTP service exposing `/tools` (list)
// and `/tools/execute` (execute) endpoints. The tool list is cached for
// CacheTTL to avoid a round trip on every catalog build.
type Remote struct {
	id         string
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration

	mu        sync.Mutex
	cached    []models.ToolMetadata
	cachedAt  time.Time
}

// NewRemote returns a Remote protocol talking to baseURL. A nil httpClient
// uses http.DefaultClient; cacheTTL of zero uses DefaultRemoteCacheTTL.
func NewRemote(id, baseURL string, httpClient *http.Client, cacheTTL time.Duration) *Remote {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultRemoteCacheTTL
	}
	return &Remote{id: id, baseURL: baseURL, httpClient: httpClient, cacheTTL: cacheTTL}
}

func (r *Remote) Identifier() string { return r.id }

func (r *Remote) ListTools(ctx context.Context) ([]models.ToolMetadata, error) {
	r.mu.Lock()
	if r.cached != nil && time.Since(r.cachedAt) < r.cacheTTL {
		defer r.mu.Unlock()
		return append([]models.ToolMetadata(nil), r.cached...), nil
	}
	r.mu.Unlock()

	var out []models.ToolMetadata
	if err := r.getJSON(ctx, "/tools", &out); err != nil {
		return nil, errtax.Wrap(errtax.ProtocolError, r.id, err)
	}

	r.mu.Lock()
	r.cached = out
	r.cachedAt = time.Now()
	r.mu.Unlock()
	return out, nil
}

func (r *Remote) GetToolMetadata(ctx context.Context, name string) (models.ToolMetadata, bool) {
	list, err := r.ListTools(ctx)
	if err != nil {
		return models.ToolMetadata{}, false
	}
	for _, m := range list {
		if m.Name == name {
			return m, true
		}
	}
	return models.ToolMetadata{}, false
}

type remoteExecuteRequest struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

func (r *Remote) Execute(ctx context.Context, name string, params map[string]any) (models.ToolResult, error) {
	body, err := json.Marshal(remoteExecuteRequest{Name: name, Params: params})
	if err != nil {
		return models.ToolResult{}, errtax.Wrap(errtax.ProtocolError, r.id, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/tools/execute", bytes.NewReader(body))
	if err != nil {
		return models.ToolResult{}, errtax.Wrap(errtax.ProtocolError, r.id, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return models.ToolResult{}, errtax.Wrap(errtax.ProtocolError, r.id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ToolResult{}, errtax.New(errtax.ProtocolError, r.id,
			fmt.Sprintf("remote tool %q returned status %d", name, resp.StatusCode))
	}

	var result models.ToolResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.ToolResult{}, errtax.Wrap(errtax.ProtocolError, r.id, err)
	}
	return result, nil
}

func (r *Remote) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
