// cmd/adc-read/main.go

// adc-read samples one ADS7828 once and prints the raw codes.
//
//	adc-read -bus /dev/i2c-1 -addr 0x49            # poll all channels
//	adc-read -bus /dev/i2c-1 -addr 0x49 -ch 5      # one on-demand conversion
//	adc-read -driver periph -bus 1 -ref external
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/tamzrod/adc-replicator/internal/ads7828"
	"github.com/tamzrod/adc-replicator/internal/bus"
	"github.com/tamzrod/adc-replicator/internal/logger"
)

func main() {
	driver := flag.String("driver", bus.DriverI2CDev, "bus driver (i2cdev, periph)")
	busName := flag.String("bus", "/dev/i2c-1", "i2c device path (i2cdev) or bus name (periph)")
	addrStr := flag.String("addr", "0x48", "7-bit device address")
	refStr := flag.String("ref", "internal", "reference (internal, external)")
	ch := flag.Int("ch", -1, "read one channel (0-7) instead of polling all")
	logLevel := flag.Int("log", int(logger.LogLevelWarning), "log level (0=none .. 4=debug)")
	flag.Parse()

	log := logger.NewLogger(nil, logger.LogLevel(*logLevel))

	addr, err := strconv.ParseUint(*addrStr, 0, 7)
	if err != nil {
		log.Fatalf("bad -addr %q: %v", *addrStr, err)
	}

	ref, err := ads7828.ParseReference(*refStr)
	if err != nil {
		log.Fatalf("bad -ref: %v", err)
	}

	if err := checkChannel(*ch); err != nil {
		log.Fatalf("%v", err)
	}

	// reject before touching the bus
	if !ads7828.ValidAddress(uint8(addr)) {
		log.Fatalf("address 0x%02X: %v", addr, ads7828.ErrInvalidAddress)
	}

	conn, err := bus.Open(bus.Config{Driver: *driver, Name: *busName}, uint8(addr))
	if err != nil {
		log.Fatalf("open bus: %v", err)
	}

	dev, err := ads7828.New(conn,
		ads7828.WithLogger(log.WithTag(fmt.Sprintf("0x%02X", addr))),
		ads7828.WithReference(ref),
	)
	if err != nil {
		conn.Close()
		log.Fatalf("%v", err)
	}
	defer dev.Close()

	if *ch >= 0 {
		r, err := dev.ReadChannel(ads7828.Channel(*ch))
		if err != nil {
			dev.Close()
			log.Errorf("ch%d: %v", *ch, err)
			os.Exit(1)
		}
		fmt.Printf("ch%d %d\n", *ch, r)
		return
	}

	dev.Poll()

	failed := 0
	for i, r := range dev.Readings() {
		if !r.Valid() {
			failed++
			fmt.Printf("ch%d -\n", i)
			continue
		}
		fmt.Printf("ch%d %d\n", i, r)
	}

	if failed > 0 {
		dev.Close()
		os.Exit(1)
	}
}

// checkChannel accepts 0-7, or -1 for a full poll.
func checkChannel(ch int) error {
	if ch < -1 || ch >= ads7828.NumChannels {
		return fmt.Errorf("bad -ch %d: want 0-%d, or -1 to poll all", ch, ads7828.NumChannels-1)
	}
	return nil
}
