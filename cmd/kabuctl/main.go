// Copyright 2026 Peter Edge
//
// All rights reserved.

package main

import (
	"context"

	"buf.build/go/app/appcmd"
	"buf.build/go/app/appext"
	"github.com/bufdev/kabuctl/cmd/kabuctl/internal/command/config"
	"github.com/bufdev/kabuctl/cmd/kabuctl/internal/command/render"
	"github.com/bufdev/kabuctl/cmd/kabuctl/internal/command/serve"
)

func main() {
	appcmd.Main(context.Background(), newRootCommand("kabuctl"))
}

// newRootCommand creates the root kabuctl command with all sub-commands.
func newRootCommand(name string) *appcmd.Command {
	builder := appext.NewBuilder(name)
	return &appcmd.Command{
		Use:                 name,
		Short:               "Render Japanese broker statement CSV exports as report tables",
		BindPersistentFlags: builder.BindRoot,
		SubCommands: []*appcmd.Command{
			config.NewCommand("config", builder),
			render.NewCommand("render", builder),
			serve.NewCommand("serve", builder),
		},
	}
}
