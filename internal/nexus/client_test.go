package nexus_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deevus/nexus-tui/internal/nexus"
)

type rpcRequest struct {
	Action string `json:"action"`
	Method string `json:"method"`
	Data   []any  `json:"data"`
	Type   string `json:"type"`
	TID    int64  `json:"tid"`
}

// extDirectServer answers every ExtDirect call with result.
func extDirectServer(t *testing.T, check func(rpcRequest), result any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nexus/service/extdirect" {
			http.NotFound(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if check != nil {
			check(req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":   "rpc",
			"tid":    req.TID,
			"action": req.Action,
			"method": req.Method,
			"result": result,
		})
	}))
}

func newClient(t *testing.T, srv *httptest.Server) *nexus.Client {
	t.Helper()
	c, err := nexus.NewClient(nexus.ClientConfig{
		BaseURL:     srv.URL + "/nexus",
		Username:    "admin",
		Password:    "admin123",
		Timeout:     5 * time.Second,
		DownloadDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNewClient_InvalidScheme(t *testing.T) {
	_, err := nexus.NewClient(nexus.ClientConfig{BaseURL: "ftp://nexus.local/"})
	if err == nil {
		t.Fatal("expected error for ftp scheme")
	}
}

func TestClient_URLOf(t *testing.T) {
	c, err := nexus.NewClient(nexus.ClientConfig{BaseURL: "http://nexus.local:8081/nexus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.URLOf(nexus.SystemInformationReportPath)
	want := "http://nexus.local:8081/nexus/service/siesta/atlas/system-information"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if got := c.URLOf("/" + nexus.SystemInformationReportPath); got != want {
		t.Errorf("expected leading slash to stay under base, got %s", got)
	}
}

func TestClient_ReadSystemInformation(t *testing.T) {
	srv := extDirectServer(t, func(req rpcRequest) {
		if req.Action != "atlas_SystemInformation" || req.Method != "read" || req.Type != "rpc" {
			t.Errorf("unexpected request %+v", req)
		}
	}, map[string]any{
		"success": true,
		"data": map[string]any{
			"system-runtime": map[string]any{"maxMemory": 1073741824, "totalMemory": 536870912, "freeMemory": 268435456},
			"nexus-status":   map[string]any{"version": "2.14.0", "edition": "OSS"},
		},
	})
	defer srv.Close()

	resp, err := newClient(t, srv).ReadSystemInformation(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || !resp.Success {
		t.Fatalf("expected successful response, got %+v", resp)
	}
	if got := resp.Data.Sections(); len(got) != 2 || got[0] != "nexus-status" {
		t.Errorf("unexpected sections %v", got)
	}
	if v, ok := resp.Data.Int64("system-runtime", "maxMemory"); !ok || v != 1073741824 {
		t.Errorf("expected maxMemory 1073741824, got %d (%v)", v, ok)
	}
	if resp.Data["nexus-status"]["version"] != "2.14.0" {
		t.Errorf("unexpected version %v", resp.Data["nexus-status"]["version"])
	}
}

func TestClient_ReadSystemInformation_Unsuccessful(t *testing.T) {
	srv := extDirectServer(t, nil, map[string]any{"success": false, "message": "nope"})
	defer srv.Close()

	resp, err := newClient(t, srv).ReadSystemInformation(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp == nil || resp.Success {
		t.Fatalf("expected unsuccessful response, got %+v", resp)
	}
	if resp.Message != "nope" {
		t.Errorf("expected message nope, got %q", resp.Message)
	}
}

func TestClient_ReadSystemInformation_NullResult(t *testing.T) {
	srv := extDirectServer(t, nil, nil)
	defer srv.Close()

	resp, err := newClient(t, srv).ReadSystemInformation(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != nil {
		t.Errorf("expected nil response for null result, got %+v", resp)
	}
}

func TestClient_Exception(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"type": "exception", "message": "boom"})
	}))
	defer srv.Close()

	_, err := newClient(t, srv).ReadSystemInformation(context.Background())
	var rpcErr *nexus.RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %v", err)
	}
	if rpcErr.Message != "boom" {
		t.Errorf("expected message boom, got %q", rpcErr.Message)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := extDirectServer(t, nil, nil)
	defer srv.Close()

	c, err := nexus.NewClient(nexus.ClientConfig{BaseURL: srv.URL + "/nexus", Username: "admin", Password: "wrong"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.ReadSystemInformation(context.Background())
	var statusErr *nexus.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", statusErr.StatusCode)
	}
}

func TestClient_ReadStorage(t *testing.T) {
	srv := extDirectServer(t, func(req rpcRequest) {
		if req.Action != "coreui_RepositoryStorage" {
			t.Errorf("unexpected action %s", req.Action)
		}
		if len(req.Data) != 2 || req.Data[0] != "maven-releases" || req.Data[1] != "/org" {
			t.Errorf("unexpected args %v", req.Data)
		}
	}, map[string]any{
		"success": true,
		"data": []map[string]any{
			{"id": "/org/sonatype", "text": "sonatype", "leaf": false},
			{"id": "/org/readme.txt", "text": "readme.txt", "leaf": true, "size": 42},
		},
	})
	defer srv.Close()

	resp, err := newClient(t, srv).ReadStorage(context.Background(), "maven-releases", "/org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Data))
	}
	if !resp.Data[1].Leaf || resp.Data[1].Size != 42 {
		t.Errorf("unexpected leaf item %+v", resp.Data[1])
	}
}

func TestClient_ListRepositories(t *testing.T) {
	srv := extDirectServer(t, nil, map[string]any{
		"success": true,
		"data":    []map[string]any{{"id": "maven-releases", "name": "Releases", "type": "hosted", "format": "maven2"}},
	})
	defer srv.Close()

	resp, err := newClient(t, srv).ListRepositories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Format != "maven2" {
		t.Errorf("unexpected repositories %+v", resp.Data)
	}
}

func TestClient_Download(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Header().Set("Content-Disposition", `attachment; filename="sysinfo.json"`)
		_, _ = w.Write([]byte(`{"nexus-status":{}}`))
	}))
	defer srv.Close()

	c := newClient(t, srv)
	target := c.URLOf(nexus.SystemInformationReportPath)

	var wg sync.WaitGroup
	paths := make([]string, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths[i], errs[i] = c.Download(context.Background(), target)
		}()
	}
	// Give both callers time to join the same flight.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("download %d: unexpected error: %v", i, err)
		}
	}
	if filepath.Base(paths[0]) != "sysinfo.json" {
		t.Errorf("expected sysinfo.json, got %s", paths[0])
	}
	if paths[0] != paths[1] {
		t.Errorf("expected shared result, got %s and %s", paths[0], paths[1])
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
	body, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(body) != `{"nexus-status":{}}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestClient_Download_FallbackName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("report"))
	}))
	defer srv.Close()

	c := newClient(t, srv)
	path, err := c.Download(context.Background(), c.URLOf(nexus.SystemInformationReportPath))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "system-information" {
		t.Errorf("expected name from url, got %s", path)
	}
}

func TestClient_Download_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	_, err := c.Download(context.Background(), c.URLOf(nexus.SystemInformationReportPath))
	var statusErr *nexus.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 StatusError, got %v", err)
	}
}
