// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package configvalidate implements the "config validate" command.
package configvalidate

import (
	"context"
	"fmt"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/kabuctl/cmd/kabuctl/internal/kabuctlcmd"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlconfig"
	"github.com/spf13/pflag"
)

// NewCommand returns a new config validate command that validates a configuration file.
func NewCommand(name string, builder appext.SubCommandBuilder) *appcmd.Command {
	flags := newFlags()
	return &appcmd.Command{
		Use:   name,
		Short: "Validate a configuration file",
		Args:  appcmd.NoArgs,
		Run: builder.NewRunFunc(
			func(ctx context.Context, container appext.Container) error {
				return run(ctx, container, flags)
			},
		),
		BindFlags: flags.Bind,
	}
}

type flags struct {
	// Config is the path to the configuration file.
	Config string
}

func newFlags() *flags {
	return &flags{}
}

// Bind registers the flag definitions with the given flag set.
func (f *flags) Bind(flagSet *pflag.FlagSet) {
	kabuctlcmd.BindConfigFlag(flagSet, &f.Config)
}

func run(_ context.Context, container appext.Container, flags *flags) error {
	configFilePath, err := kabuctlcmd.ConfigFilePath(container, flags.Config)
	if err != nil {
		return err
	}
	if err := kabuctlconfig.ValidateConfig(configFilePath); err != nil {
		return err
	}
	_, err = fmt.Fprintf(container.Stdout(), "%s is valid\n", configFilePath)
	return err
}
