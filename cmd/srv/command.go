package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "interaction"
	app.Usage = "Discord interaction endpoint"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "path of the TOML configuration file",
			EnvVars: []string{"CONFIG_FILE"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "path of a .env file loaded before reading the environment",
			Value: ".env",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the Discord interaction webhook, the health check and the metrics.`,
		},
		{
			Action:      s.keygen,
			Name:        "keygen",
			Usage:       "Generate an Ed25519 key pair for local testing",
			Category:    "Tools",
			Description: `Prints a random seed and its public key, both hex encoded.`,
		},
		{
			Action:    s.sign,
			Name:      "sign",
			Usage:     "Sign a request body the way Discord does",
			ArgsUsage: "<body>",
			Category:  "Tools",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "seed", Usage: "hex encoded Ed25519 seed", Required: true},
				&cli.StringFlag{Name: "timestamp", Usage: "timestamp to sign, defaults to now"},
				&cli.StringFlag{Name: "url", Usage: "print a curl command targeting this url"},
			},
			Description: `Prints the X-Signature-Ed25519 and X-Signature-Timestamp headers for <body>.`,
		},
		{
			Action:    s.verify,
			Name:      "verify",
			Usage:     "Verify a signed request body",
			ArgsUsage: "<body>",
			Category:  "Tools",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "signature", Usage: "hex encoded signature", Required: true},
				&cli.StringFlag{Name: "timestamp", Usage: "signed timestamp", Required: true},
				&cli.StringFlag{Name: "public-key", Usage: "hex encoded public key, defaults to the configured one"},
			},
			Description: `Prints true when the signature matches, false otherwise.`,
		},
	}

	s.app = app
}
