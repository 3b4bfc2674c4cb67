package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cratetui/internal/config"
	"cratetui/internal/keymap"
	"cratetui/internal/registry"
)

func newConfigCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var full bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Long: "Write the default config file. With --full every setting is written out\n" +
			"explicitly, without the explanatory comments.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolveConfigPath(opts)
			if err != nil {
				return err
			}
			if !full {
				if err := config.WriteDefault(path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
				return nil
			}

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.SaveToPath(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&full, "full", false, "write every setting without comments")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolveConfigPath(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if _, err := keymap.New(cfg.KeyBindings); err != nil {
				return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
			}
			if _, err := registry.ParseSort(cfg.Sort); err != nil {
				return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	})

	return cmd
}
