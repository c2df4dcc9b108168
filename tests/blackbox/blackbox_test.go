package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	return port, func() { _ = ln.Close() }
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in -short mode")
	}
	root := projectRootFromThisFile(t)
	binPath := filepath.Join(t.TempDir(), "sentiview")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/sentiview")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// fakeClassifier answers like the remote service: the echoed text plus one
// entry per model.
func fakeClassifier(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.Contains(req.Text, "explode") {
			http.Error(w, "model crashed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text": req.Text,
			"LSTM": map[string]any{"prediction": "positive", "probabilities": 91.7},
			"SVM":  map[string]any{"prediction": "litigious", "probabilities": 40.2},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, endpoint string, port int) *serverProc {
	t.Helper()
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin, "serve", "--addr", fmt.Sprintf(":%d", port), "--endpoint", endpoint)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return &serverProc{cmd: cmd, base: base}
}

func do(t *testing.T, method, url, session string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

type state struct {
	Status      string `json:"status"`
	Input       string `json:"input"`
	Predictions []struct {
		Label       string  `json:"label"`
		Prediction  string  `json:"prediction"`
		Probability float64 `json:"probability"`
	} `json:"predictions"`
	Error string `json:"error"`
}

func decodeState(t *testing.T, b []byte) state {
	t.Helper()
	var st state
	if err := json.Unmarshal(b, &st); err != nil {
		t.Fatalf("decode state: %v (%s)", err, string(b))
	}
	return st
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	classifier := fakeClassifier(t)
	// Reserve a free port, then release listener before starting the server
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, classifier.URL, port)

	resp, body := do(t, http.MethodGet, sp.base+"/readyz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz %d %s", resp.StatusCode, string(body))
	}

	// First call issues a session id that later calls reuse.
	resp, body = do(t, http.MethodGet, sp.base+"/api/state", "", nil)
	sid := resp.Header.Get("X-Session-ID")
	if resp.StatusCode != http.StatusOK || sid == "" {
		t.Fatalf("/api/state %d sid=%q %s", resp.StatusCode, sid, string(body))
	}
	if st := decodeState(t, body); st.Status != "idle" {
		t.Fatalf("initial status %q", st.Status)
	}

	resp, body = do(t, http.MethodPost, sp.base+"/api/submit?wait=true", sid, []byte(`{"text":"I love this"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit %d %s", resp.StatusCode, string(body))
	}
	st := decodeState(t, body)
	if st.Status != "succeeded" || st.Input != "" || len(st.Predictions) != 2 {
		t.Fatalf("unexpected state after submit: %+v", st)
	}
	if st.Predictions[0].Label != "LSTM" || st.Predictions[0].Prediction != "positivo" {
		t.Fatalf("unexpected first prediction: %+v", st.Predictions[0])
	}
	if st.Predictions[1].Prediction != "litigioso" {
		t.Fatalf("unexpected second prediction: %+v", st.Predictions[1])
	}

	// A failing request surfaces an error that dismiss clears.
	_, body = do(t, http.MethodPost, sp.base+"/api/submit?wait=true", sid, []byte(`{"text":"explode"}`))
	if st := decodeState(t, body); st.Status != "failed" || st.Error == "" {
		t.Fatalf("expected failed state, got %+v", st)
	}
	_, body = do(t, http.MethodPost, sp.base+"/api/dismiss", sid, nil)
	if st := decodeState(t, body); st.Status != "idle" || st.Error != "" {
		t.Fatalf("expected idle after dismiss, got %+v", st)
	}

	// Page renders for the same session.
	resp, body = do(t, http.MethodGet, sp.base+"/", sid, nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Analisar") {
		t.Fatalf("/ %d", resp.StatusCode)
	}

	resp, body = do(t, http.MethodGet, sp.base+"/metrics", "", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "sentiview_lifecycle_transitions_total") {
		t.Fatalf("/metrics missing transitions counter")
	}
}
