package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/subcontrol/internal/buildinfo"
	"github.com/dmitrijs2005/subcontrol/internal/cli"
	"github.com/dmitrijs2005/subcontrol/internal/config"
	"github.com/dmitrijs2005/subcontrol/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)

}
