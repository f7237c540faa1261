// stego — hide an encrypted message inside a carrier file.
//
// Usage:
//
//	stego embed -in <carrier> -out <file> -msg <text> [-password <pw>] [-nlsb 1]
//	stego extract -in <carrier> [-password <pw>] [-nlsb 1]
//	stego capacity -in <carrier> [-nlsb 1]
//	stego serve [-config <path>]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nrivlin/stego"
	"github.com/nrivlin/stego/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "embed":
		err = runEmbed(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	case "capacity":
		err = runCapacity(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}
	if err != nil {
		fatal(err)
	}
}

// carrierFlags are the options shared by embed, extract and capacity.
type carrierFlags struct {
	in       string
	password string
	nlsb     int
	stride   int
	delta    int
}

func (c *carrierFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.in, "in", "", "Carrier file path")
	fs.StringVar(&c.password, "password", "", "Encryption password")
	fs.IntVar(&c.nlsb, "nlsb", 0, "Low bits replaced per unit (1-8, default 1)")
	fs.IntVar(&c.stride, "stride", 0, "Sample distance between video comparison units")
	fs.IntVar(&c.delta, "delta", 0, "Largest per-sample adjustment for the video codec")
}

func (c *carrierFlags) params() stego.Params {
	return stego.Params{NLSB: c.nlsb, PairStride: c.stride, MaxSampleDelta: c.delta}
}

// loadCarrier reads the carrier and classifies its format.
func (c *carrierFlags) loadCarrier() ([]byte, stego.Format, error) {
	if c.in == "" {
		return nil, "", fmt.Errorf("carrier file is required (-in)")
	}
	data, err := os.ReadFile(c.in)
	if err != nil {
		return nil, "", fmt.Errorf("read carrier: %w", err)
	}
	format, err := stego.DetectFormat(c.in, data)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

func runEmbed(args []string) error {
	fs := flag.NewFlagSet("stego embed", flag.ExitOnError)
	var cf carrierFlags
	cf.register(fs)
	out := fs.String("out", "", "Output file path")
	msg := fs.String("msg", "", "Message to hide")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("output file is required (-out)")
	}
	if *msg == "" {
		return fmt.Errorf("message is required (-msg)")
	}

	carrier, format, err := cf.loadCarrier()
	if err != nil {
		return err
	}

	result, err := stego.Embed(context.Background(), carrier, format, []byte(*msg), cf.password, cf.params())
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, result, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Done: %s (%s, %d bytes)\n", *out, format, len(result))
	return nil
}

func runExtract(args []string) error {
	fs := flag.NewFlagSet("stego extract", flag.ExitOnError)
	var cf carrierFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	carrier, format, err := cf.loadCarrier()
	if err != nil {
		return err
	}

	msg, err := stego.Extract(context.Background(), carrier, format, cf.password, cf.params())
	if err != nil {
		return err
	}
	os.Stdout.Write(msg)
	fmt.Println()
	return nil
}

func runCapacity(args []string) error {
	fs := flag.NewFlagSet("stego capacity", flag.ExitOnError)
	var cf carrierFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	carrier, format, err := cf.loadCarrier()
	if err != nil {
		return err
	}

	bits, err := stego.Capacity(carrier, format, cf.params())
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s holds %d bits (%d payload bytes)\n", cf.in, format, bits, stego.MaxPayloadBytes(bits))
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("stego serve", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	return server.New(cfg, nil).ListenAndServe()
}

func printUsage() {
	fmt.Fprint(os.Stderr, `stego — hide an encrypted message inside a carrier file.

Commands:
  embed     -in <carrier> -out <file> -msg <text> [-password <pw>] [-nlsb N]
  extract   -in <carrier> [-password <pw>] [-nlsb N]
  capacity  -in <carrier> [-nlsb N]
  serve     [-config <path>]

Carriers: PNG/BMP images, 16-bit mono PCM WAV, AVI with a PCM audio
track, and UTF-8 text files. The format is detected from the file's
magic bytes and extension.
`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
