package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/MuhamedUsman/rmshelf/internal/network"
	"github.com/MuhamedUsman/rmshelf/internal/server"
	"github.com/MuhamedUsman/rmshelf/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveOptions struct {
	root      string
	addr      string
	advertise bool
	instance  string
	debug     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rmsim",
		Short:        "Serve a directory over the tablet's document API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve --root until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.root, "root", ".", "directory to serve")
	f.StringVar(&opts.addr, "addr", ":8080", "address to listen on")
	f.BoolVar(&opts.advertise, "advertise", false, "advertise the server over multicast DNS")
	f.StringVar(&opts.instance, "instance", "rmsim", "multicast DNS instance name")
	f.BoolVar(&opts.debug, "debug", false, "log at debug level")
	return cmd
}

func serve(ctx context.Context, opts serveOptions) error {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	util.ConfigureSlog(os.Stderr, level, false)

	s, err := server.New(opts.root)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", opts.addr, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Serve(ctx, ln)
	})
	if opts.advertise {
		g.Go(func() error {
			slog.Info("advertising over multicast DNS", "instance", opts.instance, "url", network.ReachableURL(port))
			return server.PublishEntry(ctx, opts.instance, port, "path=/documents/")
		})
	}

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("stopped")
	return nil
}
