package main

import (
	"log"
	"os"
	"path"
	"time"

	"github.com/keep-network/keep-common/pkg/logging"
	"github.com/urfave/cli"

	"github.com/keep-network/keep-passkey/cmd"
	"github.com/keep-network/keep-passkey/internal/config"
)

const defaultConfigPath = "./configs/config.toml"

var configPath string

func main() {
	app := cli.NewApp()
	app.Name = path.Base(os.Args[0])
	app.Usage = "CLI for passkey signed EOSIO transactions"
	app.Compiled = time.Now()
	app.Authors = []cli.Author{
		{
			Name:  "Keep Network",
			Email: "info@keep.network",
		},
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config,c",
			Value:       defaultConfigPath,
			Destination: &configPath,
			Usage:       "full path to the configuration file",
		},
		cli.StringFlag{
			Name:   "log-level",
			EnvVar: config.LogLevelEnvVariable,
			Usage:  "logging level, e.g. keep*=debug",
		},
	}
	app.Before = func(c *cli.Context) error {
		cfg, err := cmd.LoadConfig(c)
		if err != nil {
			return err
		}

		level := cfg.LogLevel()
		if c.IsSet("log-level") {
			level = c.String("log-level")
		}

		return logging.Configure(level)
	}
	app.Commands = []cli.Command{
		cmd.DigestCommand,
		cmd.SignCommand,
		cmd.SignK1Command,
		cmd.RecoverCommand,
		cmd.KeyCommand,
	}

	err := app.Run(os.Args)

	if err != nil {
		log.Fatal(err)
	}
}
