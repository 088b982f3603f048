package monitor

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dnssteer/dnssteer/pkg/entrypoint/config"
	utillog "github.com/dnssteer/dnssteer/pkg/util/log"
)

type Config struct {
	config.Common
}

// NewCommand returns the cobra command for "monitor".
func NewCommand() *cobra.Command {
	cc := &cobra.Command{
		Use:  "monitor",
		Long: "Start the DNS steering monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}

			ctx := context.Background()
			log := utillog.GetLogger(cfg.LogLevel)

			return start(ctx, log, cfg)
		},
	}

	config.ApplyFlags(cc)

	return cc
}

func getConfig(cmd *cobra.Command) (*Config, error) {
	var c Config
	var err error
	c.Common, err = config.CommonConfigFromCmd(cmd)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
