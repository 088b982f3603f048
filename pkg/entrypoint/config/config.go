package config

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"github.com/spf13/cobra"
)

// Common holds the flags shared by every subcommand.
type Common struct {
	ConfigFile string
	LogLevel   string
}

// ApplyFlags registers the common flags on cmd.
func ApplyFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "config.yml", "path to the YAML configuration file")
	cmd.Flags().String("loglevel", "", "log level override (default: logging.level from the config file)")
}

// CommonConfigFromCmd extracts the common flags from cmd.
func CommonConfigFromCmd(cmd *cobra.Command) (Common, error) {
	var c Common
	var err error

	c.ConfigFile, err = cmd.Flags().GetString("config")
	if err != nil {
		return c, err
	}

	c.LogLevel, err = cmd.Flags().GetString("loglevel")
	if err != nil {
		return c, err
	}

	return c, nil
}
