package process

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/head"
)

//go:embed bun_renderer.ts
var BunRendererSource string

var ErrNotRunning = errors.New("bun renderer is not running")

type Options struct {
	// Bun is the bun executable, "bun" when empty.
	Bun          string
	Dev          bool
	Dir          string
	StartTimeout time.Duration
	Logger       zerolog.Logger
}

// Renderer renders React component files in a Bun subprocess reached over a
// unix socket.
type Renderer struct {
	cmd     *exec.Cmd
	socket  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

func NewRenderer(opts Options) (*Renderer, error) {
	bun := opts.Bun
	if bun == "" {
		bun = "bun"
	}
	timeout := opts.StartTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = cwd
	}

	socket := filepath.Join(os.TempDir(), fmt.Sprintf("react-ssr-%d.sock", os.Getpid()))
	_ = os.Remove(socket)

	env := append(os.Environ(), "REACT_SSR_SOCKET="+socket)
	if opts.Dev {
		env = append(env, "REACT_SSR_DEV=1")
	}

	cmd := exec.Command(bun, "run", "--smol", "-")
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = strings.NewReader(BunRendererSource)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start bun: %w", err)
	}

	if err := waitForSocket(socket, timeout); err != nil {
		_ = cmd.Process.Kill()
		return nil, err
	}

	opts.Logger.Debug().Str("socket", socket).Int("pid", cmd.Process.Pid).Msg("bun renderer started")

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		},
	}

	return &Renderer{
		cmd:     cmd,
		socket:  socket,
		baseURL: "http://localhost",
		client:  &http.Client{Transport: transport},
		log:     opts.Logger,
	}, nil
}

func (r *Renderer) Stop() error {
	if r.cmd == nil || r.cmd.Process == nil {
		return nil
	}
	err := r.cmd.Process.Kill()
	_ = r.cmd.Wait()
	_ = os.Remove(r.socket)
	r.log.Debug().Str("socket", r.socket).Msg("bun renderer stopped")
	return err
}

type ErrorDetail struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

// RenderError is a failure reported by the JavaScript side.
type RenderError struct {
	Path    string
	Message string
	Stack   string
	Errors  []ErrorDetail
}

func (e *RenderError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "render %s: %s", e.Path, e.Message)

	if len(e.Errors) > 0 {
		sb.WriteString("\n\nErrors:")
		for i, d := range e.Errors {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, d.Message)
			if d.Stack != "" {
				fmt.Fprintf(&sb, "\n     Stack: %s", d.Stack)
			}
		}
	}

	if e.Stack != "" {
		fmt.Fprintf(&sb, "\n\nStack:\n%s", e.Stack)
	}
	return sb.String()
}

// headElement is a <title> or <meta> recorded by the runtime's Head
// component. Attributes are [key, value] pairs in declaration order.
type headElement struct {
	Kind  string      `json:"kind"`
	Text  string      `json:"text"`
	Attrs [][2]string `json:"attrs"`
}

func (e headElement) element() (head.Element, bool) {
	switch head.KindForTag(e.Kind) {
	case head.KindTitle:
		return head.Title(e.Text), true
	case head.KindMeta:
		attrs := make([]head.Attr, 0, len(e.Attrs))
		for _, kv := range e.Attrs {
			attrs = append(attrs, head.Attr{Key: kv[0], Value: kv[1]})
		}
		return head.Meta(attrs...), true
	default:
		return head.Element{}, false
	}
}

type renderResponse struct {
	HTML  string        `json:"html"`
	Head  []headElement `json:"head"`
	Error *struct {
		Message string        `json:"message"`
		Stack   string        `json:"stack"`
		Errors  []ErrorDetail `json:"errors"`
	} `json:"error"`
}

// Render renders the component exported by path with the serialized props.
func (r *Renderer) Render(ctx context.Context, path string, props string) (core.RenderResult, error) {
	if r == nil || r.client == nil {
		return core.RenderResult{}, ErrNotRunning
	}
	if props == "" {
		props = "{}"
	}

	reqBody := struct {
		Path  string          `json:"path"`
		Props json.RawMessage `json:"props"`
	}{
		Path:  path,
		Props: json.RawMessage(props),
	}

	var result renderResponse
	if err := r.postJSON(ctx, "/render", reqBody, &result); err != nil {
		return core.RenderResult{}, fmt.Errorf("render %s: %w", path, err)
	}

	if result.Error != nil {
		return core.RenderResult{}, &RenderError{
			Path:    path,
			Message: result.Error.Message,
			Stack:   result.Error.Stack,
			Errors:  result.Error.Errors,
		}
	}

	res := core.RenderResult{Body: result.HTML}
	for _, e := range result.Head {
		if el, ok := e.element(); ok {
			res.Head = append(res.Head, el)
		}
	}
	return res, nil
}

func (r *Renderer) postJSON(ctx context.Context, endpoint string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from bun renderer", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for bun socket at %s", path)
}
