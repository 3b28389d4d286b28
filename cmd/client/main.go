package main

import (
	"context"
	"os"

	"github.com/avoshkin/authgate/internal/client/api"
	"github.com/avoshkin/authgate/internal/client/cli"
	"github.com/avoshkin/authgate/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app := cli.NewApp(api.New(cfg.ServerAddr), os.Stdin, os.Stdout)
	app.Main(ctx)

}
