package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"fraudgate/internal/service/fraud/checkout"
	"fraudgate/internal/service/fraud/domain"
)

func newPayloadCmd() *cobra.Command {
	var stage string
	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Print the fraud detection payload built from the fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}
			data := checkout.FromPayment(metadataKey, &f.Payment)
			doc, err := newAssembler(f).BuildFraudDetectionPayload(cmd.Context(), f.requestContext(), &f.Order, &f.Payment, data, domain.Stage(stage))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVar(&stage, "stage", string(domain.StageBeforePayment), "order lifecycle stage tag")
	return cmd
}
