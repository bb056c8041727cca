package cli

import "flag"

const defaultRadio = RadioHCI

func (c *Config) registerFlagsOsSpecific(fs *flag.FlagSet) {
	fs.StringVar(&c.BtAdapterID, "bt-adapter", "", "ID of the Bluetooth adapter to use. Defaults to $BEACON_BT_ADAPTER or hci0.")
}
