// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package kabuctlcmd provides shared wiring for kabuctl commands that render
// reports (reading config, constructing the engine).
package kabuctlcmd

import (
	"buf.build/go/app/appext"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlconfig"
	"github.com/bufdev/kabuctl/internal/kabuctl/kabuctlreport"
	"github.com/bufdev/kabuctl/internal/standard/xos"
	"github.com/spf13/pflag"
)

// ConfigFlagName is the flag name for the configuration file path.
const ConfigFlagName = "config"

// BindConfigFlag binds the --config flag to the given string.
func BindConfigFlag(flagSet *pflag.FlagSet, config *string) {
	flagSet.StringVar(
		config,
		ConfigFlagName,
		"",
		"The configuration file path (defaults to config.yaml in the kabuctl config directory)",
	)
}

// ConfigFilePath resolves the value of the --config flag.
//
// An empty value selects config.yaml in the container's config directory.
func ConfigFilePath(container appext.Container, configFlagValue string) (string, error) {
	if configFlagValue == "" {
		return kabuctlconfig.ConfigFilePath(container.ConfigDirPath()), nil
	}
	return xos.ExpandHome(configFlagValue)
}

// ReadConfig reads and validates the configuration file selected by the --config flag.
func ReadConfig(container appext.Container, configFlagValue string) (*kabuctlconfig.Config, error) {
	configFilePath, err := ConfigFilePath(container, configFlagValue)
	if err != nil {
		return nil, err
	}
	return kabuctlconfig.ReadConfigFile(configFilePath)
}

// NewEngine constructs an Engine from the appext container and the configuration
// file selected by the --config flag.
func NewEngine(container appext.Container, configFlagValue string) (*kabuctlreport.Engine, error) {
	config, err := ReadConfig(container, configFlagValue)
	if err != nil {
		return nil, err
	}
	return kabuctlreport.NewEngine(container.Logger(), config), nil
}
