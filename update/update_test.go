package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/b0bbywan/go-screengrab/config"
)

const atomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <link rel="alternate" type="text/html" href="https://github.com/b0bbywan/go-screengrab/releases/tag/v9.9.9"/>
  </entry>
</feed>`

const jsonIndex = `{"name": "screengrab", "version": "9.9.9"}`

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		packaged bool
		want     string
		wantErr  bool
	}{
		{name: "atom feed", body: atomFeed, packaged: true, want: "9.9.9"},
		{name: "json index", body: jsonIndex, packaged: false, want: "9.9.9"},
		{name: "atom regex on json body", body: jsonIndex, packaged: true, wantErr: true},
		{name: "empty body", body: "", packaged: false, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersion([]byte(tt.body), tt.packaged)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVersion() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("parseVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func testChecker(t *testing.T, body string, packaged bool) (*Checker, *int) {
	t.Helper()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	cfg := &config.UpdateConfig{
		Enabled:      true,
		Packaged:     packaged,
		AtomURL:      server.URL,
		IndexURL:     server.URL,
		ReleasesURL:  "https://example.org/releases",
		ChangelogURL: "https://example.org/changelog",
		CacheTTL:     time.Minute,
	}
	return New(cfg), &requests
}

func TestCheckNewVersionAvailable(t *testing.T) {
	checker, _ := testChecker(t, jsonIndex, false)

	release, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if release == nil {
		t.Fatal("Check() = nil, want a release")
	}
	if release.Version != "9.9.9" {
		t.Errorf("Version = %q, want 9.9.9", release.Version)
	}
	if release.URL != "https://example.org/changelog" {
		t.Errorf("URL = %q, want the changelog for unpackaged builds", release.URL)
	}
}

func TestCheckPackagedUsesReleasesURL(t *testing.T) {
	checker, _ := testChecker(t, atomFeed, true)

	release, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if release == nil {
		t.Fatal("Check() = nil, want a release")
	}
	if release.URL != "https://example.org/releases" {
		t.Errorf("URL = %q, want the releases page for packaged builds", release.URL)
	}
}

func TestCheckUpToDate(t *testing.T) {
	checker, _ := testChecker(t, `{"version": "0.0.1"}`, false)

	release, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if release != nil {
		t.Errorf("Check() = %+v, want nil when already up to date", release)
	}
}

func TestCheckCachesFeedResult(t *testing.T) {
	checker, requests := testChecker(t, jsonIndex, false)

	for i := 0; i < 3; i++ {
		if _, err := checker.Check(context.Background()); err != nil {
			t.Fatalf("Check() #%d error = %v", i, err)
		}
	}
	if *requests != 1 {
		t.Errorf("feed fetched %d times, want 1 (cached)", *requests)
	}
}

func TestCheckFeedUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	checker := New(&config.UpdateConfig{IndexURL: server.URL, CacheTTL: time.Minute})
	if _, err := checker.Check(context.Background()); err == nil {
		t.Error("Check() should fail when the feed is unavailable")
	}
}
