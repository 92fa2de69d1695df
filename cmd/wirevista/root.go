// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the WireVista CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wirevista",
		Short: "WireVista - WireGuard dashboard admin service",
		Long: `WireVista is the backend of a single-administrator WireGuard
dashboard: one-time setup, token-based login, session revocation,
and the VPN client list store.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())

	return cmd
}
