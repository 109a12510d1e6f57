package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose    bool
	configPath string
	apiURL     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "libaas",
		Short:         "LibaasAI wardrobe assistant for the terminal",
		Long:          `libaas manages your LibaasAI wardrobe, profile and outfit suggestions from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, launch the interactive UI
			if len(args) == 0 {
				return runTUI(cmd, flags)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging on stderr")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config file (default ~/.libaas/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Override the backend URL")

	cmd.AddCommand(newTUICmd(flags))
	cmd.AddCommand(newSignupCmd(flags))
	cmd.AddCommand(newLoginCmd(flags))
	cmd.AddCommand(newLogoutCmd(flags))
	cmd.AddCommand(newWhoamiCmd(flags))
	cmd.AddCommand(newProfileCmd(flags))
	cmd.AddCommand(newWardrobeCmd(flags))
	cmd.AddCommand(newOutfitsCmd(flags))
	cmd.AddCommand(newThemeCmd(flags))
	cmd.AddCommand(newGatewayCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
