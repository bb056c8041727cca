//go:build !linux

package cli

import "flag"

const defaultRadio = RadioBlueZ

func (c *Config) registerFlagsOsSpecific(_ *flag.FlagSet) {}
