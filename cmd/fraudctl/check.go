package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"fraudgate/internal/pkg/httpclient"
	"fraudgate/internal/service/fraud/application"
	"fraudgate/internal/service/fraud/application/pipeline"
	"fraudgate/internal/service/fraud/domain"
	"fraudgate/internal/service/fraud/infrastructure/adapter"
)

const scoringService = "fraud-detection-service"

type checkResult struct {
	Outcome  pipeline.Outcome `json:"outcome"`
	Declined bool             `json:"declined"`
	Message  string           `json:"message,omitempty"`
	Metadata map[string]any   `json:"paymentMetadata"`
}

func newCheckCmd() *cobra.Command {
	var (
		baseURL string
		apiKey  string
		header  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the pre-authorization decision against a scoring service",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}

			tracer := otel.Tracer("fraudctl")
			client := httpclient.NewClient(tracer, httpclient.StaticResolver{scoringService: baseURL})
			guard := application.NewGuard(pipeline.Options{
				CallerHeader: header,
				MetadataKey:  metadataKey,
				Assembler:    newAssembler(f),
				Scoring:      adapter.NewScoringHTTPAdapter(client, scoringService, apiKey, timeout),
			}, tracer)

			outcome, err := guard.BeforePaymentAction(cmd.Context(), f.requestContext(), &f.Order, &f.Payment)
			result := checkResult{Outcome: outcome, Metadata: f.Payment.AdditionalInformation}
			if err != nil {
				if !domain.IsPaymentDeclined(err) {
					return err
				}
				result.Declined = true
				result.Message = err.Error()
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8085", "scoring service base url")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "scoring service api key")
	cmd.Flags().StringVar(&header, "caller-header", pipeline.DefaultCallerHeader, "headless checkout marker header")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "scoring request timeout")
	return cmd
}
