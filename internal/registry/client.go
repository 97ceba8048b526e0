package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/cache"
	"github.com/nocta-ui/nocta-cli/internal/errs"
	"go.uber.org/zap"
)

// Registry-relative resource paths.
const (
	RegistryManifest   = "registry.json"
	ComponentsManifest = "components.json"
	CSSBundlePath      = "css/index.css"
	UtilsAssetPath     = "lib/utils.ts"
	IconsAssetPath     = "icons/icons.ts"
)

const (
	registryCacheKey = "registry/registry.json"
	assetCachePrefix = "assets"

	defaultRegistryTTL = 10 * time.Minute
	defaultAssetTTL    = 24 * time.Hour
	defaultMaxTries    = 3
)

// StaleFunc is told when a resource is served from a stale cache entry
// because the network fetch failed.
type StaleFunc func(resource string, cause error)

// Client fetches the registry manifest and assets, falling back to the
// on-disk cache when the network is unavailable.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	cache       *cache.Store
	registryTTL time.Duration
	assetTTL    time.Duration
	maxTries    uint
	retryDelay  time.Duration
	userAgent   string
	namespace   string
	onStale     StaleFunc
	logger      *zap.Logger
	validate    *validator.Validate

	mu       sync.Mutex
	registry *Registry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithCache enables the on-disk cache.
func WithCache(s *cache.Store) Option {
	return func(cl *Client) {
		cl.cache = s
	}
}

// WithTTL sets the freshness windows for the manifest and for assets.
// Non-positive values keep the defaults.
func WithTTL(registryTTL, assetTTL time.Duration) Option {
	return func(cl *Client) {
		if registryTTL > 0 {
			cl.registryTTL = registryTTL
		}
		if assetTTL > 0 {
			cl.assetTTL = assetTTL
		}
	}
}

// WithMaxTries bounds the attempts per network fetch. One disables retries.
func WithMaxTries(n uint) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxTries = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithStaleNotice registers a callback for stale-cache fallbacks.
func WithStaleNotice(fn StaleFunc) Option {
	return func(cl *Client) {
		cl.onStale = fn
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New creates a Client for the registry at baseURL. An empty baseURL uses
// the default registry.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = branding.RegistryURL()
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		registryTTL: defaultRegistryTTL,
		assetTTL:    defaultAssetTTL,
		maxTries:    defaultMaxTries,
		retryDelay:  250 * time.Millisecond,
		userAgent:   branding.CLIName(),
		namespace:   namespaceFor(baseURL),
		logger:      zap.NewNop(),
		validate:    validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the registry base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// namespaceFor keeps cache entries of non-default registries apart.
func namespaceFor(baseURL string) string {
	if baseURL == strings.TrimRight(branding.RegistryURL(), "/") {
		return ""
	}
	return fmt.Sprintf("mirrors/%08x", crc32.ChecksumIEEE([]byte(baseURL)))
}

func (c *Client) cacheKey(key string) string {
	if c.namespace == "" {
		return key
	}
	return path.Join(c.namespace, key)
}

func (c *Client) resourceURL(rel string) string {
	return c.baseURL + "/" + strings.TrimLeft(rel, "/")
}

// GetRegistry returns the parsed registry manifest. The result is memoized
// for the life of the client.
func (c *Client) GetRegistry(ctx context.Context) (*Registry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registry != nil {
		return c.registry, nil
	}

	body, err := c.fetch(ctx, RegistryManifest, registryCacheKey, c.registryTTL)
	if err != nil {
		return nil, err
	}

	reg, err := c.parseRegistry(body)
	if err != nil {
		return nil, errs.New(errs.KindInvalidRegistry, c.resourceURL(RegistryManifest), err)
	}
	c.registry = reg
	return reg, nil
}

func (c *Client) parseRegistry(body []byte) (*Registry, error) {
	var reg Registry
	if err := json.Unmarshal(body, &reg); err != nil {
		return nil, fmt.Errorf("parsing registry JSON: %w", err)
	}
	if err := c.validate.Struct(&reg); err != nil {
		return nil, fmt.Errorf("validating registry: %w", err)
	}
	reg.stampSlugs()
	return &reg, nil
}

// assetKey places an asset under the assets prefix. The path is normalized
// first so ".." segments cannot climb out into another resource's key.
func assetKey(assetPath string) string {
	return assetCachePrefix + "/" + cache.NormalizeKey(assetPath)
}

// GetAsset returns a text asset by registry-relative path.
func (c *Client) GetAsset(ctx context.Context, assetPath string) (string, error) {
	body, err := c.fetch(ctx, assetPath, assetKey(assetPath), c.assetTTL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Component looks a component up by slug or name, ignoring case.
func (c *Client) Component(ctx context.Context, name string) (*Component, error) {
	reg, err := c.GetRegistry(ctx)
	if err != nil {
		return nil, err
	}
	comp, ok := reg.Lookup(name)
	if !ok {
		return nil, notFound(name, reg.Suggest(name))
	}
	return comp, nil
}

// Requirements returns the baseline packages every project must have.
func (c *Client) Requirements(ctx context.Context) (map[string]string, error) {
	reg, err := c.GetRegistry(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(reg.Requirements))
	for name, rng := range reg.Requirements {
		out[name] = rng
	}
	return out, nil
}

// Categories returns the registry's category descriptions keyed by slug.
func (c *Client) Categories(ctx context.Context) (map[string]CategoryInfo, error) {
	reg, err := c.GetRegistry(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]CategoryInfo, len(reg.Categories))
	for slug, info := range reg.Categories {
		out[slug] = info
	}
	return out, nil
}

// ListComponents returns every component ordered by category, then name.
func (c *Client) ListComponents(ctx context.Context) ([]Component, error) {
	reg, err := c.GetRegistry(ctx)
	if err != nil {
		return nil, err
	}
	return reg.Sorted(), nil
}
