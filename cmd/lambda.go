package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/gemini-proxy/internal/config"
	"github.com/isometry/gemini-proxy/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	lambdaCmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().PersistentPreRun(cmd, args)
			return nil
		},
	}
	lambdaCmd.AddCommand(&cobra.Command{
		Use:   "http",
		Short: "Serve HTTP trigger events (API Gateway v1/v2, function URLs)",
		RunE:  runLambdaHTTP,
	})

	bindEnvMap(lambdaCmd, lambdaEnvMapString)
	return lambdaCmd
}

func runLambdaHTTP(cmd *cobra.Command, _ []string) error {
	c, err := setup(cmd.Context(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to setup lambda")
	}

	logger.Debug("creating runtime...")
	rt := runtime.NewRuntime(c.handler,
		runtime.WithPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(logger.With("component", "runtime")))

	logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
	lambda.StartWithOptions(rt.Lambda, lambda.WithContext(cmd.Context()))
	return nil
}
