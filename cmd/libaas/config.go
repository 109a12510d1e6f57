package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/libaas/internal/config"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the libaas configuration",
	}

	cmd.AddCommand(newConfigShowCmd(flags))
	cmd.AddCommand(newConfigInitCmd(flags))

	return cmd
}

func newConfigShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after defaults, the config file, .env files and LIBAAS_* overrides are applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := config.ResolvePaths(os.Getenv)
			if err != nil {
				return newCommandError("show config", "locating the libaas home directory", err, "Set LIBAAS_HOME or make sure HOME is set.")
			}
			path := valueOrFallback(flags.configPath, paths.ConfigFile())
			cfg, err := config.Load(config.LoadOptions{
				ConfigPath: path,
				EnvFiles:   []string{".env", paths.EnvFile()},
			})
			if err != nil {
				return newCommandError("show config", "loading "+path, err, "Fix the file or the LIBAAS_* environment variables.")
			}

			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent(2)
			if err := encoder.Encode(cfg); err != nil {
				return newCommandError("show config", "encoding YAML", err, "Report this issue.")
			}
			return encoder.Close()
		},
	}
}

type configInitOptions struct {
	force bool
}

func newConfigInitCmd(flags *rootFlags) *cobra.Command {
	opts := &configInitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := config.ResolvePaths(os.Getenv)
			if err != nil {
				return newCommandError("initialise config", "locating the libaas home directory", err, "Set LIBAAS_HOME or make sure HOME is set.")
			}
			path := valueOrFallback(flags.configPath, paths.ConfigFile())

			if _, err := os.Stat(path); err == nil && !opts.force {
				return newCommandError("initialise config", path+" already exists", fs.ErrExist, "Pass --force to overwrite it.")
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return newCommandError("initialise config", "checking "+path, err, "Check file permissions.")
			}

			if err := config.Save(path, config.Default()); err != nil {
				return newCommandError("initialise config", "writing "+path, err, "Check file permissions.")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}
