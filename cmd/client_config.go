package cmd

import (
	"fmt"

	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/controllers/aws"
	"github.com/spf13/cobra"
)

const (
	formatJS   = "js"
	formatJSON = "json"
)

func cmdClientConfig() *cobra.Command {
	var format string
	clientCmd := &cobra.Command{
		Use:   "client-config",
		Short: "Print the browser configuration for the configured client mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ctl *aws.Controller
			if config.Gemini.Credentials.Source == config.CredentialSourceSSM {
				var err error
				if ctl, err = newAWSController(cmd.Context()); err != nil {
					return err
				}
			}
			provider, err := newCredentials(ctl)
			if err != nil {
				return err
			}
			cfg, err := resolveClientConfig(provider, endpoint())(cmd.Context())
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case formatJS:
				out, err = cfg.Script()
			case formatJSON:
				out, err = cfg.JSON()
				out = append(out, '\n')
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	clientCmd.Flags().StringVarP(&format, "format", "f", formatJS, "Output format. Supported values are 'js' and 'json'")
	return clientCmd
}
