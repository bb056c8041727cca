package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/pkg/beacon"
	"github.com/beaconmesh/beacon-remote/pkg/cli"
	"github.com/beaconmesh/beacon-remote/pkg/display"
	"github.com/beaconmesh/beacon-remote/pkg/input"
)

// inputGrace bounds how long shutdown waits for the input source to report an error.
const inputGrace = 100 * time.Millisecond

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usageText = `
Broadcasts a short command label over BLE advertising. Listeners filter on the service UUID and
act on each new sequence number.

Keys (terminal input):
  Up / w / k      select the next command and broadcast it
  Down / s / j    select the previous command and broadcast it
  Enter / Space   broadcast the selected command again
  Esc / q / Bksp  stop advertising and exit

Script input (-script FILE, or piped stdin) takes one instruction per line, for example
"up", "down 3" or "ok". The radio stops advertising when the script ends.`

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "usage: %s [OPTION...]\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, usageText)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "OPTIONS:")
	flag.PrintDefaults()
}

// crlfWriter translates line feeds for a terminal in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

func main() {
	status := 1
	defer func() {
		os.Exit(status)
	}()

	config := cli.NewConfig(cli.FlagAll)
	flag.Usage = usage
	config.RegisterCommandLineFlags()
	flag.Parse()
	config.ReadFromEnvironment()

	if flag.NArg() > 0 {
		usage()
		return
	}

	catalog, err := config.Catalog()
	if err != nil {
		writeErr("Invalid command list: %s", err)
		return
	}
	serviceID, err := config.ServiceID()
	if err != nil {
		writeErr("Invalid service UUID: %s", err)
		return
	}

	src, closer, interactive, err := config.OpenInput(os.Stdin)
	if err != nil {
		writeErr("Error opening input: %s", err)
		return
	}
	defer closer.Close()

	radio, err := config.OpenRadio()
	if err != nil {
		writeErr("Error opening radio: %s", err)
		if cli.IsAdapterError(err) {
			writeErr("%s", config.AdapterErrorHelpMessage(err))
		} else if strings.Contains(err.Error(), "operation not permitted") {
			writeErr("\nTry again after granting this application CAP_NET_ADMIN:\n\n\tsudo setcap 'cap_net_admin=eip' \"$(which %s)\"\n", os.Args[0])
		}
		return
	}
	defer radio.Close()

	if interactive {
		log.SetOutput(crlfWriter{os.Stderr})
		defer log.SetOutput(nil)
	}
	renderer, err := config.Renderer(os.Stdout, interactive)
	if err != nil {
		writeErr("Error: %s", err)
		return
	}
	async := display.NewAsync(renderer)
	defer async.Close()

	b, err := beacon.New(catalog, radio, beacon.WithServiceID(serviceID), beacon.WithRenderer(async))
	if err != nil {
		writeErr("Error: %s", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	events, wait := input.Stream(ctx, src)
	inputErr := make(chan error, 1)
	go func() {
		inputErr <- wait()
	}()

	log.Info("Advertising %s as %s", catalog, serviceID)
	err = b.Run(ctx, events)
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		writeErr("Error: %s", err)
		return
	}

	select {
	case err := <-inputErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			writeErr("Error reading input: %s", err)
			return
		}
	case <-time.After(inputGrace):
		// A terminal read cannot be interrupted; the source goroutine ends with the process.
	}
	status = 0
}
