// Command blinkmon follows the firmware console on a serial port and prints
// a running summary of blink interval changes.
//
//	blinkmon -device /dev/ttyUSB0 -baud 115200
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tarm/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate of the console UART")
	verbose = flag.Bool("verbose", false, "Echo every console line")
)

func main() {
	flag.Parse()

	port, err := serial.OpenPort(&serial.Config{
		Name:        *device,
		Baud:        *baud,
		ReadTimeout: 0, // block until data arrives
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open serial port %s: %v\n", *device, err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Printf("Following %s at %d baud\n", *device, *baud)

	var sum Summary
	sc := bufio.NewScanner(port)
	for sc.Scan() {
		raw := sc.Text()
		if *verbose {
			fmt.Println(raw)
		}
		l, ok := ParseLine(raw)
		if !ok {
			continue
		}
		if sum.Apply(l) {
			fmt.Printf("[%s] delay=%v changes=%d bursts=%d presses=%d errors=%d\n",
				time.Now().Format(time.RFC3339), sum.Delay, sum.DelayChanges, sum.Bursts, sum.Presses, sum.Errors)
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: read: %v\n", err)
		os.Exit(1)
	}
}
