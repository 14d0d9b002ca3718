// Package main provides the operations tool of the platform.
//
//	eventbus [-env FILE] migrate           create the event tables and every read model table
//	eventbus [-env FILE] replay <family>   rebuild the read models from one event family
//
// Configuration comes from the environment and the optional .env file, see package config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AntonStoeckl/content-eventbus-go/platform/app"
	"github.com/AntonStoeckl/content-eventbus-go/platform/core"
	"github.com/AntonStoeckl/content-eventbus-go/platform/shell/config"
)

var ErrUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if errors.Is(err, ErrUsage) {
			os.Exit(2)
		}

		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("eventbus", flag.ContinueOnError)
	flags.SetOutput(out)
	envFile := flags.String("env", ".env", "optional .env file")

	if err := flags.Parse(args); err != nil {
		return errors.Join(ErrUsage, err)
	}

	command, rest := flags.Arg(0), flags.Args()
	if len(rest) > 0 {
		rest = rest[1:]
	}

	switch {
	case command == "migrate" && len(rest) == 0:
	case command == "replay" && len(rest) == 1:
	default:
		return usage()
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	platform, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer platform.Close()

	if err = platform.Migrate(ctx); err != nil {
		return err
	}

	if command == "migrate" {
		fmt.Fprintln(out, "schema is up to date")
		return nil
	}

	replayed, err := platform.Replay(ctx, rest[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "replayed %d %s events\n", replayed, rest[0])

	return nil
}

func usage() error {
	return errors.Join(ErrUsage, fmt.Errorf(
		"eventbus [-env FILE] migrate | replay <%s>",
		strings.Join(core.Families(), "|"),
	))
}
