package main

import (
	"context"
	"log"
	"os"

	"github.com/apexai/draftkit/internal/buildinfo"
	"github.com/apexai/draftkit/internal/cli"
	"github.com/apexai/draftkit/internal/config"
	"github.com/apexai/draftkit/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
