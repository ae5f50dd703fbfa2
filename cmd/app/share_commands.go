package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/clip/cmd/app/commands"
	"github.com/allisson/clip/internal/app"
	"github.com/allisson/clip/internal/config"
)

func serverFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Server base URL (defaults to CLIP_SERVER_URL)",
	}
}

// shareContainer loads the configuration and applies the --server override
// when the command has one. Links carry their own server address.
func shareContainer(cmd *cli.Command) *app.Container {
	cfg := config.Load()
	if server := cmd.String("server"); server != "" {
		cfg.ClipServerURL = server
	}
	return app.NewContainer(cfg)
}

func getShareCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "send",
			Usage: "Encrypt a secret locally and print a share link",
			Flags: []cli.Flag{
				serverFlag(),
				&cli.StringFlag{
					Name:    "text",
					Aliases: []string{"t"},
					Usage:   "Secret to share (read from stdin when omitted)",
				},
				&cli.IntFlag{
					Name:  "ttl",
					Value: 0,
					Usage: "Lifetime in seconds, clamped to [1, 86400] (server default when omitted)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := shareContainer(cmd)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunSend(
					ctx,
					container.ShareService(),
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("text"),
					int(cmd.Int("ttl")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:      "receive",
			Usage:     "Fetch and decrypt the secret behind a share link",
			ArgsUsage: "[link]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "burn",
					Value: false,
					Usage: "Delete the secret from the server after reading it",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := shareContainer(cmd)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunReceive(
					ctx,
					container.ShareService(),
					commands.DefaultIO(),
					cmd.Args().First(),
					cmd.Bool("burn"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:      "burn",
			Usage:     "Delete the secret behind a share link",
			ArgsUsage: "<link>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := shareContainer(cmd)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunBurn(
					ctx,
					container.ShareService(),
					commands.DefaultIO().Writer,
					cmd.Args().First(),
				)
			},
		},
		{
			Name:  "status",
			Usage: "Show whether the server stores secrets durably or in memory",
			Flags: []cli.Flag{serverFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := shareContainer(cmd)
				defer func() { _ = container.Shutdown(ctx) }()

				apiClient := container.APIClient()
				return commands.RunStatus(
					ctx,
					apiClient,
					commands.DefaultIO().Writer,
					apiClient.BaseURL(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "keygen",
			Usage: "Generate a random AES-256 key in share link format",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunKeygen(
					container.Encryptor(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
