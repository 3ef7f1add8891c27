// Package credentials resolves the upstream API key at invocation time.
//
// Providers never cache: the hosting process may or may not be reused between
// invocations, and a rotated key must be picked up on the next request.
package credentials

import (
	"context"
	"fmt"
	"os"
	"strings"

	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("API key not configured")

// Provider supplies the secret credential for a single invocation.
type Provider interface {
	Secret(ctx context.Context) (string, error)
}

// SecretGetter reads a parameter from a secret store. It is satisfied by the AWS controller.
type SecretGetter interface {
	GetSecret(ctx context.Context, key string, encrypted bool) (string, error)
}

// Env reads the API key from a process environment variable.
type Env struct {
	Name   string
	lookup func(string) (string, bool)
}

// NewEnv returns an Env provider for the named variable.
func NewEnv(name string) *Env {
	return &Env{Name: name, lookup: os.LookupEnv}
}

// Secret implements Provider.
func (e *Env) Secret(context.Context) (string, error) {
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(e.Name)
	if v = strings.TrimSpace(v); v == "" {
		return "", ErrNotConfigured
	}
	return v, nil
}

// SSM reads the API key from an SSM parameter.
type SSM struct {
	Parameter string
	getter    SecretGetter
}

// NewSSM returns an SSM provider reading parameter through getter.
func NewSSM(getter SecretGetter, parameter string) *SSM {
	return &SSM{Parameter: parameter, getter: getter}
}

// Secret implements Provider.
func (s *SSM) Secret(ctx context.Context) (string, error) {
	if s.Parameter == "" {
		return "", ErrNotConfigured
	}
	v, err := s.getter.GetSecret(ctx, s.Parameter, true)
	if err != nil {
		var nf *ssmtypes.ParameterNotFound
		if errors.As(err, &nf) {
			return "", ErrNotConfigured
		}
		return "", errors.Wrap(err, "failed to retrieve API key")
	}
	if v = strings.TrimSpace(v); v == "" {
		return "", ErrNotConfigured
	}
	return v, nil
}

// Static always returns the same key. An empty key is reported as not configured.
type Static string

// Secret implements Provider.
func (s Static) Secret(context.Context) (string, error) {
	if s == "" {
		return "", ErrNotConfigured
	}
	return string(s), nil
}

// New selects a Provider for the given source.
func New(source, envVar, ssmParameter string, getter SecretGetter) (Provider, error) {
	switch strings.TrimSpace(strings.ToLower(source)) {
	case config.CredentialSourceEnv, "":
		return NewEnv(envVar), nil
	case config.CredentialSourceSSM:
		if getter == nil {
			return nil, errors.New("ssm credential source requires an AWS controller")
		}
		return NewSSM(getter, ssmParameter), nil
	default:
		return nil, fmt.Errorf("unsupported credential source: %s", source)
	}
}
