package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/server"
	"github.com/twels/front/internal/urlparam"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	initLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve", "server":
		err = server.Run(ctx)
	case "encode", "decode":
		err = runCodec(os.Args[1], os.Args[2:], os.Stdout)
	case "params":
		err = runParams(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "twels: %v\n", err)
		os.Exit(1)
	}
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TWELS_LOG_LEVEL"))) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// runCodec encodes or decodes every argument, one result per line.
func runCodec(cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	variantName := fs.String("variant", "v2", "codec variant (v1 or v2)")
	urlValue := fs.Bool("url", false, "encode: print the value as written into the URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	v, err := querycodec.ParseVariant(*variantName)
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%s: missing argument", cmd)
	}
	for _, arg := range fs.Args() {
		var line string
		switch {
		case cmd == "decode":
			line, err = v.Decode(arg)
			if err != nil {
				return err
			}
		case *urlValue:
			line = querycodec.URLValue(v, arg)
		default:
			line = v.Encode(arg)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// runParams prints the parsed form of a query string as JSON.
func runParams(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("params: expected one query string")
	}
	params, err := urlparam.Parse(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}

func usage() {
	fmt.Fprintf(os.Stderr, `twels - formula search front end

Usage:
  twels <command> [arguments]

Commands:
  serve       Run the search page server
  encode      Encode search text for a URL (-variant v1|v2, -url)
  decode      Decode a URL query value back into search text
  params      Parse a query string and print it as JSON
  help        Show this help
`)
}
