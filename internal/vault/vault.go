// internal/vault/vault.go
//
// Vault KV-v2 reader for configuration secrets and tenant DB passwords.
//
// Context
// -------
// cmd/web builds one Client at boot when `vault.enabled` is set.  It
// resolves `vault:` references in the config (config.ResolveSecrets) and
// later hands out per-tenant DB passwords to the tenant loader, which may
// ask for the same key from several goroutines when a burst of requests
// hits cold tenants.
//
// Notes
// -----
//   - Address and token come from VAULT_ADDR and VAULT_TOKEN.
//   - Values are cached per "path#key" for the caller's ttl; concurrent
//     misses for one key share a single read.
//   - A renewable token is kept alive by a LifetimeWatcher until the boot
//     context is cancelled.
//   - Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrMissingKey is returned when the secret exists but lacks the key.
var ErrMissingKey = errors.New("vault: key not found in secret")

// kvReader returns the data map of one KV-v2 secret.
type kvReader interface {
	Read(ctx context.Context, mount, path string) (map[string]any, error)
}

type sdkKV struct{ api *vault.Client }

func (s sdkKV) Read(ctx context.Context, mount, path string) (map[string]any, error) {
	sec, err := s.api.KVv2(mount).Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if sec == nil || sec.Data == nil {
		return nil, errors.New("empty secret")
	}
	return sec.Data, nil
}

type cached struct {
	val string
	exp time.Time
}

// Client is safe for concurrent use.
type Client struct {
	kv  kvReader
	now func() time.Time

	mu    sync.RWMutex
	cache map[string]cached
	group singleflight.Group
}

// New reads the SDK environment, builds a client, and starts token
// renewal bound to ctx.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if cfg.Error != nil {
		return nil, fmt.Errorf("vault config: %w", cfg.Error)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	if api.Token() == "" {
		return nil, errors.New("vault: VAULT_TOKEN is not set")
	}

	go renewLoop(ctx, api)
	return newClient(sdkKV{api: api}), nil
}

func newClient(kv kvReader) *Client {
	return &Client{kv: kv, now: time.Now, cache: make(map[string]cached)}
}

// GetKV returns secretPath#key, where secretPath starts with the KV mount
// ("secret/linkcard/db").  With ttl > 0 the value is cached that long.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	mount, rel, ok := strings.Cut(strings.Trim(secretPath, "/"), "/")
	if !ok || mount == "" || rel == "" || key == "" {
		return "", fmt.Errorf("vault: bad reference %q#%q", secretPath, key)
	}
	ref := secretPath + "#" + key

	if v, ok := c.lookup(ref); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(ref, func() (any, error) {
		data, err := c.kv.Read(ctx, mount, rel)
		if err != nil {
			return "", fmt.Errorf("vault read %s: %w", secretPath, err)
		}
		s, ok := data[key].(string)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingKey, ref)
		}
		if ttl > 0 {
			c.mu.Lock()
			c.cache[ref] = cached{val: s, exp: c.now().Add(ttl)}
			c.mu.Unlock()
		}
		return s, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) lookup(ref string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.cache[ref]
	if !ok || !c.now().Before(e.exp) {
		return "", false
	}
	return e.val, true
}

//
// token renewal
//

func renewLoop(ctx context.Context, api *vault.Client) {
	log := zap.S().Named("vault")
	for ctx.Err() == nil {
		sec, err := api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("token renew failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token not renewable, rechecking in 1h")
			sleep(ctx, time.Hour)
			continue
		}

		w, err := api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			log.Warnw("lifetime watcher", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		go w.Start()
		watch(ctx, w, log)
		w.Stop()
		sleep(ctx, 15*time.Second)
	}
}

func watch(ctx context.Context, w *vault.LifetimeWatcher, log *zap.SugaredLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				log.Warnw("token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
