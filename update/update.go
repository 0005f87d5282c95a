package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/b0bbywan/go-screengrab/cache"
	"github.com/b0bbywan/go-screengrab/config"
	"github.com/b0bbywan/go-screengrab/logger"
)

var (
	atomVersionRe = regexp.MustCompile(`/releases/tag/v(\d+\.\d+\.\d+)"`)
	jsonVersionRe = regexp.MustCompile(`"version":\s*"(\d+\.\d+\.\d+)"`)
)

const cacheKey = "latest-version"

// Release describes an available newer version.
type Release struct {
	Version string
	URL     string
}

// Checker compares the running version against the remote release feed.
type Checker struct {
	cfg    *config.UpdateConfig
	client *http.Client
	cache  *cache.Cache[string]
}

func New(cfg *config.UpdateConfig) *Checker {
	return &Checker{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache.New[string](cfg.CacheTTL),
	}
}

// Check fetches the release feed and returns the newest release when it
// is more recent than the running version, nil otherwise. Feed results
// are cached so periodic re-checks stay cheap.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	latest, ok := c.cache.Get(cacheKey)
	if !ok {
		feed := c.cfg.IndexURL
		if c.cfg.Packaged {
			feed = c.cfg.AtomURL
		}
		logger.Debug("[update] searching for new version on %s", feed)

		body, err := c.fetch(ctx, feed)
		if err != nil {
			return nil, err
		}
		latest, err = parseVersion(body, c.cfg.Packaged)
		if err != nil {
			return nil, err
		}
		c.cache.Set(cacheKey, latest)
	}

	logger.Debug("[update] newest version: %s (installed: %s)", latest, config.AppVersion)
	if !IsNewer(config.AppVersion, latest) {
		return nil, nil
	}

	url := c.cfg.ChangelogURL
	if c.cfg.Packaged {
		url = c.cfg.ReleasesURL
	}
	return &Release{Version: latest, URL: url}, nil
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("[update] failed to close response body for %s", url)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseVersion extracts the newest version from the feed body: release
// tags in the atom feed for packaged builds, the "version" field of the
// JSON index otherwise.
func parseVersion(body []byte, packaged bool) (string, error) {
	re := jsonVersionRe
	if packaged {
		re = atomVersionRe
	}
	m := re.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("no version found in feed")
	}
	return string(m[1]), nil
}
