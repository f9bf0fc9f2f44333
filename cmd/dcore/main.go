package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
)

var log = logging.Logger("dcore")

func main() {
	app := &cli.App{
		Name:    "dcore",
		Usage:   "deterministic content-marketplace state engine tools",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a TOML config file",
				Value: "dcore.toml",
			},
		},
		Commands: []*cli.Command{
			replayCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}
