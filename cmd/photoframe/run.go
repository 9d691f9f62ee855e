// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/photoframe/frame"
	"github.com/GermanBionicSystems/photoframe/picture"
	"github.com/GermanBionicSystems/photoframe/placeholder"
	"github.com/GermanBionicSystems/photoframe/planecache"
	"github.com/GermanBionicSystems/photoframe/videosink"
	"github.com/spf13/cobra"
)

var (
	runOpts   frame.Options
	webFormat = videosink.DefaultFormat
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Cycle through the pictures of a directory",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	addRenderFlags(runCmd, &runOpts)
	runCmd.Flags().String("dir", "pics", "Directory holding the pictures")
	runCmd.Flags().Duration("interval", defaultInterval, "Time each picture is shown")
	runCmd.Flags().Duration("settle", defaultSettle, "Time given to the display after a refresh before it sleeps")
	runCmd.Flags().String("sink", "epd", "Where frames are shown (epd, terminal, web)")
	runCmd.Flags().String("listen", ":8080", "Address of the web preview")
	runCmd.Flags().Var(&webFormat, "web-format", "Image format of the web preview (png, jpeg)")
	runCmd.Flags().String("spi", "", "SPI port name, the first one when empty")
	runCmd.Flags().String("cache-dir", "", "Directory caching rendered frames, disabled when empty")
	runCmd.Flags().Bool("once", false, "Show the first picture and exit")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	interval, _ := cmd.Flags().GetDuration("interval")
	settle, _ := cmd.Flags().GetDuration("settle")
	sinkName, _ := cmd.Flags().GetString("sink")
	listen, _ := cmd.Flags().GetString("listen")
	spiName, _ := cmd.Flags().GetString("spi")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	once, _ := cmd.Flags().GetBool("once")

	if err := runOpts.Palette.Validate(); err != nil {
		return err
	}

	paths, err := picture.List(dir)
	if err != nil {
		return err
	}
	log.Printf("found %d pictures in %s", len(paths), dir)

	r := &frame.Renderer{Opts: runOpts}
	if cacheDir != "" {
		c, err := planecache.New(cacheDir)
		if err != nil {
			return err
		}
		defer c.Close()
		r.Cache = c
	}

	fallback, err := r.RenderImage(placeholder.Render(runOpts.Width, runOpts.Height,
		"No pictures", fmt.Sprintf("Copy some pictures into %s and restart.", dir)))
	if err != nil {
		return err
	}

	sink, err := openSink(sinkName, sinkConfig{
		width:  runOpts.Width,
		height: runOpts.Height,
		listen: listen,
		format: webFormat,
		spi:    spiName,
	})
	if err != nil {
		return err
	}
	defer func() {
		log.Printf("clearing %s before exiting", sink)
		if err := sink.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seq := &frame.Sequencer{
		Paths:    paths,
		Renderer: r,
		Sink:     sink,
		Interval: interval,
		Settle:   settle,
		Fallback: fallback,
		Once:     once,
	}
	if err := seq.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
