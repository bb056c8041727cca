package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/beaconmesh/beacon-remote/internal/log"
	"github.com/beaconmesh/beacon-remote/pkg/cli"
	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

var (
	label    = flag.String("label", "HELLO", "Command `label` to advertise")
	duration = flag.Duration("duration", 10*time.Second, "How long to advertise (0 advertises until interrupted)")
)

func main() {
	config := cli.NewConfig(cli.FlagRadio | cli.FlagCatalog)
	config.RegisterCommandLineFlags()
	flag.Parse()
	config.ReadFromEnvironment()
	log.SetLevel(log.LevelDebug)

	serviceID, err := config.ServiceID()
	if err != nil {
		log.Error("Invalid service UUID: %v", err)
		return
	}

	log.Info("Opening radio (adapter '%s')", config.BtAdapterID)
	radio, err := config.OpenRadio()
	if err != nil {
		if cli.IsAdapterError(err) {
			log.Error("%s", config.AdapterErrorHelpMessage(err))
		} else {
			log.Error("Failed to open radio: %v", err)
		}
		return
	}
	defer radio.Close()
	log.Info("Radio opened")

	if radio.IsAdvertising() {
		if err := radio.StopAdvertising(); err != nil {
			log.Warning("Failed to stop previous advertisement: %v", err)
		}
	}

	packet := protocol.Encode(serviceID, 0, []byte(*label))
	if err := radio.SetAdvertisingPayload(packet.Bytes()); err != nil {
		log.Error("Failed to set payload: %v", err)
		return
	}
	if err := radio.StartAdvertising(); err != nil {
		log.Error("Failed to start advertising: %v", err)
		return
	}
	defer func() {
		if err := radio.StopAdvertising(); err != nil {
			log.Error("Failed to stop advertising: %v", err)
		}
		log.Info("Stopped advertising")
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}
	log.Info("Advertising %s until interrupted or %s elapses", packet, *duration)
	<-ctx.Done()
}
