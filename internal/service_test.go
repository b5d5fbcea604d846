package internal_test

import (
	"testing"

	"github.com/deevus/nexus-tui/internal"
	"github.com/deevus/nexus-tui/internal/nexus"
)

func TestNewServices(t *testing.T) {
	svc := internal.NewServices(&nexus.MockSystemInformation{}, &nexus.MockDownloader{}, &nexus.MockStorageBrowser{})

	if svc.SystemInformation == nil {
		t.Fatal("expected SystemInformation service")
	}
	if svc.Downloader == nil {
		t.Fatal("expected Downloader service")
	}
	if svc.Storage == nil {
		t.Fatal("expected Storage service")
	}
}

func TestNewClientServices(t *testing.T) {
	c, err := nexus.NewClient(nexus.ClientConfig{BaseURL: "http://localhost:8081/nexus/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc := internal.NewClientServices(c)
	if svc.SystemInformation != c || svc.Downloader != c || svc.Storage != c {
		t.Error("expected every service to be backed by the client")
	}
}
