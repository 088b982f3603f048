package main

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dnssteer/dnssteer/pkg/entrypoint/monitor"
	"github.com/dnssteer/dnssteer/pkg/entrypoint/zones"
)

func main() {
	root := &cobra.Command{
		Use:           "dnssteer",
		Long:          "dnssteer steers DNS answers toward healthy, non-overloaded backend nodes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(monitor.NewCommand())
	root.AddCommand(zones.NewCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
