// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService runs the proxy as a standalone HTTP service.
	ModeService = "service"
	// ModeLambdaHTTP runs the proxy as an AWS Lambda function behind an HTTP trigger.
	ModeLambdaHTTP = "lambda-http"
)

const (
	// CredentialSourceEnv reads the API key from an environment variable on every invocation.
	CredentialSourceEnv = "env"
	// CredentialSourceSSM reads the API key from an SSM parameter on every invocation.
	CredentialSourceSSM = "ssm"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Gemini is a struct that contains the upstream API configuration.
	Gemini gemini
	// Client is a struct that contains the browser-side configuration.
	Client client
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
	// Archive is a struct that contains the configuration for exchange archiving.
	Archive archive
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"lambda-http"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// EnvFile is the dotenv file loaded before flags are bound. Missing files are ignored.
	EnvFile string `yaml:"envFile,omitempty" default:".env"`
}

type gemini struct {
	// BaseURL is the scheme and host of the Generative Language API.
	BaseURL string `yaml:"baseURL,omitempty" default:"https://generativelanguage.googleapis.com"`
	// APIVersion is the API version path segment.
	APIVersion string `yaml:"apiVersion,omitempty" default:"v1beta"`
	// Model is the model the requests are sent to.
	Model string `yaml:"model,omitempty" default:"gemini-2.5-flash"`
	// Method is the model method invoked.
	Method string `yaml:"method,omitempty" default:"generateContent"`
	// Endpoint overrides the endpoint assembled from the fields above when set.
	Endpoint string `yaml:"endpoint,omitempty"`
	// Credentials describes where the API key is read from.
	Credentials struct {
		// Source is either 'env' or 'ssm'.
		Source string `yaml:"source,omitempty" default:"env"`
		// EnvVar is the environment variable holding the key when Source is 'env'.
		EnvVar string `yaml:"envVar,omitempty" default:"GEMINI_API_KEY"`
		// SSMParameter is the parameter name holding the key when Source is 'ssm'.
		SSMParameter string `yaml:"ssmParameter,omitempty"`
	} `yaml:"credentials,omitempty"`
}

type client struct {
	// Mode is either 'proxied' or 'direct'.
	Mode string `yaml:"mode,omitempty" default:"proxied"`
	// ProxyPath is the same-origin path the browser calls in proxied mode.
	ProxyPath string `yaml:"proxyPath,omitempty" default:"/api/gemini"`
}

type service struct {
	Path        string        `yaml:"path,omitempty" default:"/api/gemini"`
	Addr        string        `yaml:"addr,omitempty"`
	Port        string        `yaml:"port,omitempty" default:"8080"`
	Timeout     time.Duration `yaml:"timeout,omitempty" default:"60s"`
	MetricsPath string        `yaml:"metricsPath,omitempty" default:"/metrics"`
	// ClientConfigPath serves the browser configuration script. Empty disables it.
	ClientConfigPath string `yaml:"clientConfigPath,omitempty" default:"/config.js"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

type archive struct {
	Enabled    bool   `yaml:"enabled,omitempty"`
	BucketName string `yaml:"bucketName,omitempty"`
	Prefix     string `yaml:"prefix,omitempty" default:"exchanges/"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&Gemini),
		defaults.Set(&Client),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
		defaults.Set(&Archive),
	)
}

// FilePath returns the configuration file path, honouring CONFIG_FILE.
func FilePath() string {
	if p, ok := os.LookupEnv("CONFIG_FILE"); ok {
		return p
	}
	return "config.yaml"
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		Gemini  gemini  `yaml:"gemini,omitempty"`
		Client  client  `yaml:"client,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
		Archive archive `yaml:"archive,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Gemini = a.Gemini
	Client = a.Client
	Service = a.Service
	Lambda = a.Lambda
	Archive = a.Archive

	return nil
}
