// Package clientconfig resolves the static configuration object handed to the browser.
package clientconfig

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects the configuration variant.
type Mode string

const (
	// ModeProxied routes the browser through the same-origin proxy. The key is never exposed.
	ModeProxied Mode = "proxied"
	// ModeDirect hands the raw key and the upstream endpoint to the browser. Local use only.
	ModeDirect Mode = "direct"
)

// Config is the object exposed to the browser.
type Config struct {
	APIKey *string `json:"apiKey"`
	APIURL string  `json:"apiUrl"`
}

// Proxied returns the production variant.
func Proxied(proxyPath string) Config {
	return Config{APIURL: proxyPath}
}

// Direct returns the local/example variant exposing key.
func Direct(key, endpoint string) Config {
	return Config{APIKey: &key, APIURL: endpoint}
}

// ParseMode validates a configured mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(strings.ToLower(s))); m {
	case ModeProxied, ModeDirect:
		return m, nil
	case "":
		return ModeProxied, nil
	default:
		return "", fmt.Errorf("unsupported client mode: %s", s)
	}
}

// Resolve returns the active variant. key is only read in direct mode.
func Resolve(mode Mode, proxyPath, endpoint, key string) Config {
	if mode == ModeDirect {
		return Direct(key, endpoint)
	}
	return Proxied(proxyPath)
}

// JSON renders the configuration as a JSON object.
func (c Config) JSON() ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode client configuration")
	}
	return b, nil
}

// Script renders the configuration as a browser script assigning window.APP_CONFIG.
func (c Config) Script() ([]byte, error) {
	b, err := c.JSON()
	if err != nil {
		return nil, err
	}
	return []byte("window.APP_CONFIG = " + string(b) + ";\n"), nil
}
