package main

import (
	"github.com/spf13/cobra"

	"arxivdigest/internal/app"
	"arxivdigest/internal/config"
	"arxivdigest/internal/logging"
)

func newRootCommand() *cobra.Command {
	var (
		configPath string
		sendEmail  bool
		ignoreSeen bool
	)

	cmd := &cobra.Command{
		Use:          "arxivdigest",
		Short:        "Fetch new arXiv papers, score them, and print or mail a digest",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel)

			return app.Run(cmd.Context(), cfg, app.Options{
				SendEmail:  sendEmail,
				IgnoreSeen: ignoreSeen,
			}, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file path")
	cmd.Flags().BoolVar(&sendEmail, "email", false, "also send the digest as an HTML email")
	cmd.Flags().BoolVar(&ignoreSeen, "ignore-seen", false, "bypass the seen-set filter and skip persisting it")

	return cmd
}
