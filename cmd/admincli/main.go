package main

import (
	"context"
	"log"
	"os"

	"github.com/openatlas/openatlas/internal/admincli"
	"github.com/openatlas/openatlas/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := admincli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
