package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/grussorusso/archbench/internal/bench"
	"github.com/grussorusso/archbench/internal/config"
	"github.com/grussorusso/archbench/internal/logging"
	"go.uber.org/zap"
)

func main() {
	configFileName := ""
	if len(os.Args) > 1 {
		configFileName = os.Args[1]
	}
	config.ReadConfiguration(configFileName)

	if _, err := logging.Init(); err != nil {
		log.Fatalf("could not initialize logging: %v", err)
	}

	handler, cleanup, err := bench.NewHandlerFromConfig(context.Background())
	if err != nil {
		zap.L().Fatal("could not initialize the handler", zap.Error(err))
	}

	lambda.StartWithOptions(handler.HandleLambda, lambda.WithEnableSIGTERM(cleanup))
}
