// Command classify runs one image through the classification pipeline and
// prints the result as JSON.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"civicsight/internal/classify"
	"civicsight/internal/config"
	"civicsight/internal/database"
	"civicsight/internal/gemini"
	"civicsight/internal/logging"
	"civicsight/internal/taxonomy"
)

func main() {
	imageURL := flag.String("image", "", "Image URL to classify (prompted for when empty)")
	description := flag.String("description", "", "Optional citizen description")
	flag.Parse()

	if err := config.Load(); err != nil {
		log.Println("no .env loaded:", err)
	}
	logger, err := logging.New(config.LogLevel())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if *imageURL == "" {
		fmt.Println("Enter image URL")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		*imageURL = strings.TrimSpace(line)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := classifyOnce(ctx, logger, *imageURL, *description)
	if err != nil {
		logger.Error("classification failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatal(err)
	}
}

func classifyOnce(ctx context.Context, logger *zap.Logger, imageURL, description string) (classify.Result, error) {
	db, err := database.Open(config.DatabaseURL(), 1)
	if err != nil {
		return classify.Result{}, err
	}
	defer db.Close()

	model, err := gemini.New(ctx, gemini.Options{
		APIKey:         config.GeminiAPIKey(),
		Model:          config.GeminiModel(),
		BaseURL:        config.GeminiBaseURL(),
		AttemptTimeout: config.InferenceTimeout(),
		Logger:         logger,
	})
	if err != nil {
		return classify.Result{}, err
	}

	p := classify.NewPipeline(
		taxonomy.NewLoader(taxonomy.NewStore(db), logger),
		classify.NewHTTPImageFetcher(config.ImageFetchTimeout(), config.MaxImageBytes),
		model,
		logger,
	)
	req := classify.Request{ImageURL: imageURL}
	if strings.TrimSpace(description) != "" {
		req.Description = &description
	}
	return p.Classify(ctx, req)
}
