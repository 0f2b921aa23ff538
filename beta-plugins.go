// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
	"github.com/threedi/beta-plugins-sub000/tools"
)

var version = "0.2.0"

var buildstamp = "no build stamp provided"

var println = fmt.Println
var printf = fmt.Printf

var (
	workingdir string
	toolArgs   string
	verbose    bool
	quiet      bool
)

var toolManager tools.PluginToolManager

var rootCmd = &cobra.Command{
	Use:   "beta-plugins",
	Short: "Checks 3Di computational grids against high resolution DEMs",
	Long: `beta-plugins runs analysis tools on 3Di models. The LeakDetector tool
finds obstacles in the DEM (levees, walls, embankments) that the exchange
levels of the computational grid fail to represent.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		toolManager.Logger = logger
		toolManager.Quiet = quiet
		return changeWorkingDirectory(workingdir)
	},
}

var listToolsCmd = &cobra.Command{
	Use:   "listtools",
	Short: "Lists all available tools",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pt := toolManager.GetListOfTools()
		printf("The following %v tools are available:\n", len(pt))
		for _, value := range pt {
			println(tools.TrailingSpaces(value.GetName(), 20) + value.GetDescription())
		}
	},
}

var toolHelpCmd = &cobra.Command{
	Use:     "toolhelp <tool>",
	Short:   "Prints help documentation for a tool",
	Example: "  beta-plugins toolhelp LeakDetector",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := toolManager.GetToolHelp(args[0])
		if err != nil {
			return err
		}
		println(s)
		return nil
	},
}

var toolArgsCmd = &cobra.Command{
	Use:   "toolargs <tool>",
	Short: "Prints the argument descriptions for a tool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		argDescriptions, err := toolManager.GetToolArgDescriptions(args[0])
		if err != nil {
			return err
		}
		printf("The following arguments are listed for '%s':\n", args[0])
		for _, val := range argDescriptions {
			println(val)
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <tool>",
	Short: "Runs a tool",
	Long: `Runs a tool. Arguments are given with --args, delimited by semicolons or
commas and in the order listed by toolargs. Without --args the tool asks
for its arguments on the console.`,
	Example: `  beta-plugins run LeakDetector --args "dem.tif;grid.geojson;leaks.geojson"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolName := strings.TrimSpace(args[0])
		if !cmd.Flags().Changed("args") {
			return toolManager.Run(toolName)
		}
		return toolManager.RunWithArguments(toolName, splitToolArgs(toolArgs))
	},
}

var rasterFormatsCmd = &cobra.Command{
	Use:   "rasterformats",
	Short: "Prints the supported raster formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		m := raster.GetMapOfFormatsAndExtensions()
		keys := make([]string, 0, len(m))
		for key := range m {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		println("The following raster formats are supported for reading:")
		for _, key := range keys {
			if !strings.Contains(strings.ToLower(key), "unknown") {
				println(tools.TrailingSpaces(key, 20), m[key])
			}
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printf("beta-plugins version %s.%s\n", version, buildstamp)
	},
}

var licenceCmd = &cobra.Command{
	Use:   "licence",
	Short: "Prints the licence",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		println(licenceText)
	},
}

func init() {
	toolManager.InitializeTools()

	rootCmd.PersistentFlags().StringVar(&workingdir, "cwd", "", "Change the working directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Hide progress bars")
	runCmd.Flags().StringVar(&toolArgs, "args", "", "Tool arguments, delimited by semicolons or commas")

	rootCmd.AddCommand(listToolsCmd, toolHelpCmd, toolArgsCmd, runCmd, rasterFormatsCmd, versionCmd, licenceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// splitToolArgs keeps empty fields so optional arguments can be skipped,
// e.g. "dem.tif;grid.geojson;out.geojson;;opts.yaml".
func splitToolArgs(s string) []string {
	s = strings.Replace(strings.Trim(s, "\""), ",", ";", -1)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	ret := strings.Split(s, ";")
	for i := range ret {
		ret[i] = strings.TrimSpace(ret[i])
	}
	return ret
}

func changeWorkingDirectory(wd string) error {
	wd = strings.Replace(wd, "\"", "", -1)
	if strings.TrimSpace(wd) == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			return errors.Wrap(err, "working directory")
		}
	}
	fi, err := os.Stat(wd)
	if err != nil {
		return errors.Wrapf(err, "working directory %s", wd)
	}
	if !fi.IsDir() {
		return errors.Errorf("working directory %s is not a directory", wd)
	}
	toolManager.SetWorkingDirectory(wd)
	return nil
}

var licenceText = `Copyright (c) 2015 The GoSpatial Authors
Lead Developer: John Lindsay, PhD (jlindsay@uoguelph.ca),
The University of Guelph, Canada

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.`
