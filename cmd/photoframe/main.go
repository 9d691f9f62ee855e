// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// photoframe shows the pictures of a directory on a tri-color e-paper display.
package main

import (
	"fmt"
	"os"

	"github.com/GermanBionicSystems/photoframe/frame"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "photoframe",
	Short:        "Show pictures on a black, white and red e-paper display",
	SilenceUsage: true,
}

// addRenderFlags registers the flags controlling how pictures are rendered.
func addRenderFlags(cmd *cobra.Command, o *frame.Options) {
	*o = frame.DefaultOptions
	cmd.Flags().IntVar(&o.Width, "width", o.Width, "Frame width in pixels")
	cmd.Flags().IntVar(&o.Height, "height", o.Height, "Frame height in pixels")
	cmd.Flags().Var(&o.Palette, "palette", "Inks in tie-break priority order, optionally with a matching color (red=#c83232)")
	cmd.Flags().Var(&o.Filter, "filter", "Resize filter (nearest, approx-bilinear, bilinear, catmull-rom)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
