package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const securetokenCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

const (
	minKeyTTL  = time.Minute
	maxKeyTTL  = 24 * time.Hour
	maxKeys    = 16
	fetchLimit = 10 * time.Second
)

// keyCache holds the identity provider's current signing certificates keyed
// by kid. Entries are refreshed lazily when the set expires or a token
// references an unknown kid. Refreshes are collapsed with singleflight so a
// burst of requests after rotation fetches once.
type keyCache struct {
	url    string
	client *http.Client
	logger *zap.Logger

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time

	sf singleflight.Group
}

func newKeyCache(logger *zap.Logger) *keyCache {
	return &keyCache{
		url:    securetokenCertsURL,
		client: &http.Client{Timeout: fetchLimit},
		logger: logger.Named("identity.keys"),
		keys:   map[string]*rsa.PublicKey{},
	}
}

// Get returns the public key for kid, refreshing the set when the cache is
// stale or the kid is unknown.
func (c *keyCache) Get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := time.Now().Before(c.expiresAt)
	c.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if _, err, _ := c.sf.Do("refresh", func() (interface{}, error) {
		return nil, c.refresh(ctx)
	}); err != nil {
		return nil, err
	}

	c.mu.RLock()
	key, ok = c.keys[kid]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown signing key id %q", kid)
	}
	return key, nil
}

func (c *keyCache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("signing key fetch failed", zap.Error(err))
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.logger.Error("signing key fetch bad status", zap.Int("status", res.StatusCode))
		return fmt.Errorf("key endpoint returned %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}

	var certs map[string]string
	if err := json.Unmarshal(body, &certs); err != nil {
		return err
	}
	if len(certs) == 0 {
		return errors.New("key endpoint returned no certificates")
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		if len(keys) >= maxKeys {
			break
		}
		key, err := parseCertPublicKey(certPEM)
		if err != nil {
			c.logger.Warn("skipping unparsable certificate", zap.String("kid", kid), zap.Error(err))
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return errors.New("no usable signing keys")
	}

	ttl := cacheTTL(res.Header.Get("Cache-Control"))

	c.mu.Lock()
	c.keys = keys
	c.expiresAt = time.Now().Add(ttl)
	c.mu.Unlock()

	c.logger.Debug("signing keys refreshed",
		zap.Int("count", len(keys)),
		zap.Duration("ttl", ttl),
	)
	return nil
}

func parseCertPublicKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("no PEM block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("certificate key is not RSA")
	}
	return key, nil
}

// cacheTTL extracts max-age from a Cache-Control header, clamped to sane
// bounds so a misbehaving upstream cannot pin or thrash the cache.
func cacheTTL(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil {
				ttl := time.Duration(secs) * time.Second
				if ttl < minKeyTTL {
					return minKeyTTL
				}
				if ttl > maxKeyTTL {
					return maxKeyTTL
				}
				return ttl
			}
		}
	}
	return minKeyTTL
}
