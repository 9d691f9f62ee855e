// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/photoframe/bitplane"
	"github.com/GermanBionicSystems/photoframe/frame"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

var renderOpts frame.Options

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Render a single picture into black.png, red.png and preview.png",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	addRenderFlags(renderCmd, &renderOpts)
	renderCmd.Flags().StringP("out", "o", ".", "Output directory")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	r := &frame.Renderer{Opts: renderOpts}
	f, err := r.Render(args[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for name, img := range map[string]image.Image{
		"black.png":   f.Black,
		"red.png":     f.Red,
		"preview.png": bitplane.Compose(f.Black, f.Red),
	} {
		path := filepath.Join(out, name)
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("wrote %s", path)
	}
	return nil
}
