// Utility for printing the advertising payload a beacon broadcasts

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beaconmesh/beacon-remote/pkg/cli"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usageText = `
Prints the advertising payload for COMMAND with sequence number SEQUENCE (default 0) as hex.
COMMAND may also be the index of an entry in the configured command list. Use -v to print the
decoded fields and a warning if the payload had to be truncated.`

func cliUsage() {
	usage(flag.CommandLine.Output())
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [OPTION...] COMMAND [SEQUENCE]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, usageText)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "OPTIONS:")
	flag.PrintDefaults()
}

func main() {
	var verbose bool
	status := 1
	defer func() {
		os.Exit(status)
	}()

	config := cli.NewConfig(cli.FlagCatalog)
	config.RegisterCommandLineFlags()
	flag.Usage = cliUsage
	flag.BoolVar(&verbose, "v", false, "Print decoded fields")
	flag.Parse()
	config.ReadFromEnvironment()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		usage(os.Stderr)
		return
	}

	serviceID, err := config.ServiceID()
	if err != nil {
		writeErr("Invalid service UUID: %s", err)
		return
	}

	label := flag.Arg(0)
	if index, err := strconv.Atoi(label); err == nil {
		catalog, err := config.Catalog()
		if err != nil {
			writeErr("Invalid command list: %s", err)
			return
		}
		if index < 0 || index >= catalog.Count() {
			writeErr("Command index %d out of range (catalog has %d commands)", index, catalog.Count())
			return
		}
		label = catalog.Label(index)
	}

	var sequence uint64
	if flag.NArg() == 2 {
		if sequence, err = strconv.ParseUint(flag.Arg(1), 0, 16); err != nil {
			writeErr("Invalid sequence number: %s", err)
			return
		}
	}

	packet := protocol.Encode(serviceID, uint16(sequence), []byte(label))
	fmt.Println(packet)
	if verbose {
		fmt.Printf("service:   %s\n", serviceID)
		fmt.Printf("sequence:  %d\n", sequence)
		fmt.Printf("command:   %q\n", label)
		fmt.Printf("length:    %d\n", packet.Len())
	}
	if packet.Truncated() {
		writeErr("Warning: payload truncated from %d to %d bytes", packet.RawLen(), packet.Len())
	}
	status = 0
}
