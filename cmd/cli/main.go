package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/pwvault/internal/buildinfo"
	"github.com/dmitrijs2005/pwvault/internal/cli"
	"github.com/dmitrijs2005/pwvault/internal/config"
	"github.com/dmitrijs2005/pwvault/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
