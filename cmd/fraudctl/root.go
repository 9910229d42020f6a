package main

import (
	"github.com/spf13/cobra"

	"fraudgate/internal/pkg/logger"
)

var (
	fixturePath string
	metadataKey string
	logLevel    string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fraudctl",
		Short: "Inspect and exercise the checkout fraud gate offline",
		Long: `fraudctl builds fraud detection payloads from an order fixture and can
submit them to a scoring service, printing the mapped decision.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel, true)
		},
	}

	root.PersistentFlags().StringVarP(&fixturePath, "fixture", "f", "", "path to the order fixture (JSON)")
	root.PersistentFlags().StringVar(&metadataKey, "metadata-key", "tapbuy", "payment metadata namespace key")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	_ = root.MarkPersistentFlagRequired("fixture")

	root.AddCommand(newPayloadCmd())
	root.AddCommand(newCheckCmd())
	return root
}
