package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	aetherlab "github.com/aetherlab/go-sdk"
)

func main() {
	// Load .env if present; real environment variables win.
	_ = godotenv.Load()

	apiKey := os.Getenv(aetherlab.EnvAPIKey)
	if apiKey == "" {
		log.Fatalf("%s environment variable is required", aetherlab.EnvAPIKey)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	fmt.Printf("Testing AetherLab SDK against production servers...\n")
	fmt.Printf("API Key: %s...\n", apiKey[:min(len(apiKey), 10)])

	client, err := aetherlab.New(
		aetherlab.WithAPIKey(apiKey),
		aetherlab.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// A benign prompt first.
	fmt.Printf("\nChecking: \"Hello! How can I help you today?\"\n")
	result, err := client.TestPrompt(ctx, "Hello! How can I help you today?", nil)
	if err != nil {
		log.Fatalf("❌ Prompt test failed: %v", err)
	}
	printResult(result)

	// Then content that should trip the financial-advice guardrails.
	content := "Invest everything in this stock for guaranteed 100x returns!"
	fmt.Printf("\nValidating: %q\n", content)

	result, err = client.ValidateContent(ctx, &aetherlab.ValidationRequest{
		Content:              content,
		ContentType:          "financial_advice",
		DesiredAttributes:    []string{"professional", "includes disclaimers"},
		ProhibitedAttributes: []string{"guaranteed returns", "get rich quick"},
		Regulations:          []string{"SEC", "FINRA"},
	})
	if err != nil {
		var svcErr *aetherlab.ServiceError
		if errors.As(err, &svcErr) {
			log.Fatalf("❌ Service rejected the request (%d %s): %s",
				svcErr.StatusCode, svcErr.Code, svcErr.Message)
		}
		var transportErr *aetherlab.TransportError
		if errors.As(err, &transportErr) {
			log.Fatalf("❌ Could not reach the service: %v", transportErr.Err)
		}
		log.Fatalf("❌ Validation failed: %v", err)
	}
	printResult(result)

	fmt.Printf("\n🎉 SDK test completed successfully!\n")
}

func printResult(result *aetherlab.ValidationResult) {
	if result.IsCompliant {
		fmt.Printf("✅ Compliant\n")
	} else {
		fmt.Printf("🚫 Non-compliant\n")
	}
	fmt.Printf("Probability of non-compliance: %.1f%%\n", result.AvgThreatLevel*100)
	fmt.Printf("Confidence: %.1f%%\n", result.ConfidenceScore*100)

	if len(result.Violations) > 0 {
		fmt.Printf("Violations:\n")
		for _, violation := range result.Violations {
			fmt.Printf("  • %s\n", violation)
		}
	}
	if len(result.RegulatoryRisks) > 0 {
		fmt.Printf("Regulatory risks:\n")
		for _, risk := range result.RegulatoryRisks {
			fmt.Printf("  • %s\n", risk)
		}
	}
	if result.SuggestedRevision != "" {
		fmt.Printf("Suggested revision: %s\n", result.SuggestedRevision)
	}

	fmt.Printf("Audit ID: %s\n", result.AuditID)
	fmt.Printf("Timestamp: %s\n", result.Timestamp.Format(time.RFC3339))
	fmt.Printf("Processing time: %s\n", result.ProcessingTime)
}
