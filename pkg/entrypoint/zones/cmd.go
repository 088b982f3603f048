package zones

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dnssteer/dnssteer/pkg/entrypoint/config"
	"github.com/dnssteer/dnssteer/pkg/env"
	"github.com/dnssteer/dnssteer/pkg/monitor"
	"github.com/dnssteer/dnssteer/pkg/util/cloudflare"
	utillog "github.com/dnssteer/dnssteer/pkg/util/log"
	"github.com/dnssteer/dnssteer/pkg/util/retry"
)

type Config struct {
	config.Common
}

// NewCommand returns the cobra command for "zones".
func NewCommand() *cobra.Command {
	cc := &cobra.Command{
		Use:  "zones",
		Long: "Print the configured zones and their current DNS records",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg Config
			var err error
			cfg.Common, err = config.CommonConfigFromCmd(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			log := utillog.GetLogger(cfg.LogLevel)

			return run(ctx, log, &cfg)
		},
	}

	config.ApplyFlags(cc)

	return cc
}

func run(ctx context.Context, log *logrus.Entry, cfg *Config) error {
	_env, err := env.New(log, cfg.ConfigFile)
	if err != nil {
		return err
	}

	records, err := cloudflare.NewRecordsClient(log.WithField("component", "cloudflare"), _env.CloudflareToken(), retry.DefaultPolicy())
	if err != nil {
		return err
	}

	return monitor.LogZoneInventory(ctx, log, _env, records)
}
