package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/autodoc/internal/config"
)

const (
	configCommandName      = "config"
	configInitCommandName  = "init"
	globalFlagName         = "global"
	forceFlagName          = "force"
	configShortDescription = "manage autodoc configuration files"
	initShortDescription   = "write the default configuration file"
	setShortDescription    = "store one configuration value"
	setUse                 = "set <key> <value>"
	globalFlagDescription  = "use ~/.autodoc/config.yaml instead of ./.autodoc.yaml"
	forceFlagDescription   = "overwrite an existing configuration file"
	configWrittenTemplate  = "Configuration written to %s\n"
	configValueSetTemplate = "Set %s in %s\n"
	setArgumentsCount      = 2
)

type configTargetOptions struct {
	global bool
	force  bool
}

func (options configTargetOptions) target() config.InitTarget {
	if options.global {
		return config.InitTargetGlobal
	}
	return config.InitTargetLocal
}

func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configCommandName,
		Short: configShortDescription,
	}
	configCommand.AddCommand(createConfigInitCommand(), createConfigSetCommand())
	return configCommand
}

func createConfigInitCommand() *cobra.Command {
	var options configTargetOptions
	initCommand := &cobra.Command{
		Use:   configInitCommandName,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target: options.target(),
				Force:  options.force,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), configWrittenTemplate, writtenPath)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &options.global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &options.force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func createConfigSetCommand() *cobra.Command {
	var options configTargetOptions
	setCommand := &cobra.Command{
		Use:   setUse,
		Short: setShortDescription,
		Args:  cobra.ExactArgs(setArgumentsCount),
		RunE: func(command *cobra.Command, arguments []string) error {
			destinationPath, err := config.ResolveTargetPath(options.target(), "")
			if err != nil {
				return err
			}
			if err := config.SetConfigurationValue(destinationPath, arguments[0], arguments[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(command.OutOrStdout(), configValueSetTemplate, arguments[0], destinationPath)
			return err
		},
	}
	registerBooleanFlag(setCommand.Flags(), &options.global, globalFlagName, false, globalFlagDescription)
	return setCommand
}
