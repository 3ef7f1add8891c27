package cmd

import (
	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda-http' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Gemini.BaseURL: {
		Name:        "gemini-base-url",
		Description: "The Generative Language API base URL",
	},
	&config.Gemini.APIVersion: {
		Name:        "gemini-api-version",
		Description: "The Generative Language API version",
	},
	&config.Gemini.Model: {
		Name:        "gemini-model",
		Description: "The model requests are forwarded to",
		Env:         helpers.Ptr("GEMINI_MODEL"),
	},
	&config.Gemini.Method: {
		Name:        "gemini-method",
		Description: "The model method invoked",
	},
	&config.Gemini.Endpoint: {
		Name:        "gemini-endpoint",
		Description: "Full upstream endpoint. Overrides base URL, version, model and method when set",
		Env:         helpers.Ptr("GEMINI_API_URL"),
	},
	&config.Gemini.Credentials.Source: {
		Name:        "credentials-source",
		Description: "Where the API key is read from on each request. Supported values are 'env' and 'ssm'",
		Short:       helpers.Ptr("A"),
	},
	&config.Gemini.Credentials.EnvVar: {
		Name:        "credentials-env-var",
		Description: "The environment variable holding the API key when the credentials source is 'env'",
	},
	&config.Gemini.Credentials.SSMParameter: {
		Name:        "credentials-ssm-parameter",
		Description: "The SSM parameter holding the API key when the credentials source is 'ssm'",
	},
	&config.Client.Mode: {
		Name:        "client-mode",
		Description: "The browser configuration variant. Supported values are 'proxied' and 'direct' (exposes the key, local use only)",
	},
	&config.Client.ProxyPath: {
		Name:        "client-proxy-path",
		Description: "The same-origin proxy path handed to the browser in proxied mode",
	},
	&config.Archive.BucketName: {
		Name:        "archive-s3-bucket",
		Description: "The S3 bucket exchanges are archived to",
		Env:         helpers.Ptr("ARCHIVE_S3_BUCKET"),
	},
	&config.Archive.Prefix: {
		Name:        "archive-s3-prefix",
		Description: "The key prefix of archived exchanges",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Archive.Enabled: {
		Name:        "archive-s3",
		Description: "Enable S3 archiving of forwarded exchanges",
		Env:         helpers.Ptr("ARCHIVE_S3_UPLOAD"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}
