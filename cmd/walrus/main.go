// walrus - generate a terminal colorscheme from an image
//
// walrus extracts a 16 colour palette from a wallpaper, fills pywal style
// templates and applies the result to running programs.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import "github.com/jmylchreest/walrus/internal/cli"

func main() {
	cli.Execute()
}
