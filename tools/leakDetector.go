// Copyright 2024 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

package tools

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uiprogress"
	"github.com/pkg/errors"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/gridadmin"
	"github.com/threedi/beta-plugins-sub000/geospatialfiles/raster"
	"github.com/threedi/beta-plugins-sub000/leakdetector"
)

// Number of warnings listed after a run; the rest are only counted.
const maxListedWarnings = 10

type LeakDetector struct {
	demFile       string
	gridFile      string
	edgesFile     string
	obstaclesFile string
	optionsFile   string
	cellIDs       []int
	toolManager   *PluginToolManager
}

func (this *LeakDetector) GetName() string {
	s := "LeakDetector"
	return getFormattedToolName(s)
}

func (this *LeakDetector) GetDescription() string {
	s := "Finds DEM obstacles missing from grid exchange levels"
	return getFormattedToolDescription(s)
}

func (this *LeakDetector) GetHelpDocumentation() string {
	ret := "This tool compares a high resolution DEM with the exchange levels of a 3Di computational grid. " +
		"For every pair of adjacent 2D cells it looks for ridges (levees, walls, road embankments) that " +
		"cross the pair and finds the crest level at which water can no longer pass. Edges whose crest " +
		"level lies at least min_obstacle_height above the exchange level are written to a GeoJSON file " +
		"with the exchange level and the crest level. The grid is read from a GeoJSON file holding the " +
		"cells as rectangular polygons and the flowlines between them. Detector options (min_obstacle_height, " +
		"search_precision, min_peak_prominence, workers, crest_method) may be given in a YAML file."
	return ret
}

func (this *LeakDetector) SetToolManager(tm *PluginToolManager) {
	this.toolManager = tm
}

func (this *LeakDetector) GetArgDescriptions() [][]string {
	return [][]string{
		{"InputDEM", "string", "The input DEM name, with directory and file extension"},
		{"GridFile", "string", "The computational grid (GeoJSON cells and flowlines)"},
		{"OutputEdges", "string", "The output GeoJSON file of leaking edges"},
		{"OutputObstacles", "string", "Optional GeoJSON file of all obstacles"},
		{"OptionsFile", "string", "Optional YAML file with detector options"},
		{"CellIDs", "string", "Optional space separated cell ids; all cells if blank"},
	}
}

func (this *LeakDetector) ParseArguments(args []string) error {
	if len(args) < 3 {
		return errors.Wrapf(ErrMissingArguments, "%s needs at least 3, got %d", this.GetName(), len(args))
	}
	optional := func(i int) string {
		if i < len(args) && !notSpecified(args[i]) {
			return args[i]
		}
		return ""
	}
	if err := this.setFiles(args[0], args[1], args[2], optional(3), optional(4)); err != nil {
		return err
	}
	var err error
	if this.cellIDs, err = parseCellIDs(optional(5)); err != nil {
		return err
	}
	return this.Run()
}

func (this *LeakDetector) CollectArguments() error {
	consolereader := bufio.NewReader(os.Stdin)
	ask := func(prompt string) string {
		print(prompt)
		s, err := consolereader.ReadString('\n')
		if err != nil {
			println(err)
		}
		return strings.TrimSpace(s)
	}

	demFile := ask("Enter the DEM file name (incl. file extension): ")
	gridFile := ask("Enter the grid GeoJSON file name: ")
	edgesFile := ask("Enter the output edges file name: ")
	obstaclesFile := ask("Enter the output obstacles file name (blank for none): ")
	optionsFile := ask("Enter the options YAML file name (blank for defaults): ")
	if err := this.setFiles(demFile, gridFile, edgesFile, obstaclesFile, optionsFile); err != nil {
		return err
	}
	var err error
	if this.cellIDs, err = parseCellIDs(ask("Enter the cell ids to analyse (blank for all): ")); err != nil {
		return err
	}
	return this.Run()
}

func (this *LeakDetector) setFiles(demFile, gridFile, edgesFile, obstaclesFile, optionsFile string) error {
	tm := this.toolManager
	this.demFile = tm.resolvePath(demFile)
	this.gridFile = tm.resolvePath(gridFile)
	this.optionsFile = tm.resolvePath(optionsFile)
	for _, fn := range []string{this.demFile, this.gridFile, this.optionsFile} {
		if fn == "" {
			continue
		}
		if _, err := os.Stat(fn); os.IsNotExist(err) {
			return errors.Wrapf(raster.FileDoesNotExistError, "%s", fn)
		}
	}
	this.edgesFile = withExtension(tm.resolvePath(edgesFile), ".geojson")
	if this.edgesFile == "" {
		return errors.Wrap(ErrMissingArguments, "no output edges file")
	}
	this.obstaclesFile = withExtension(tm.resolvePath(obstaclesFile), ".geojson")
	return nil
}

func withExtension(fileName, ext string) string {
	if fileName != "" && !strings.Contains(fileName[strings.LastIndex(fileName, pathSep)+1:], ".") {
		return fileName + ext
	}
	return fileName
}

func parseCellIDs(s string) ([]int, error) {
	var ids []int
	for _, f := range strings.Fields(s) {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "cell id %q", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (this *LeakDetector) Run() error {
	start1 := time.Now()
	logger := this.toolManager.logger()

	opts := leakdetector.DefaultOptions()
	if this.optionsFile != "" {
		var err error
		if opts, err = leakdetector.LoadOptions(this.optionsFile); err != nil {
			return err
		}
	}

	println("Reading raster data...")
	dem, err := raster.CreateRasterFromFile(this.demFile)
	if err != nil {
		return err
	}
	println("Reading grid...")
	grid, err := gridadmin.Load(this.gridFile)
	if err != nil {
		return err
	}
	topo, err := leakdetector.NewTopology(this.cellIDs, dem, grid, opts)
	if err != nil {
		return err
	}
	numPairs := len(topo.Edges())
	printf("Analysing %d cell pairs in %d cells...\n", numPairs, len(topo.Cells()))

	start2 := time.Now()
	if !this.toolManager.Quiet && numPairs > 0 {
		uiprogress.Start()
		bar := uiprogress.AddBar(numPairs).AppendCompleted().PrependElapsed()
		opts.Progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := leakdetector.NewDetector(topo, opts, logger).Run(ctx)
	if opts.Progress != nil {
		uiprogress.Stop()
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start2)

	println("Saving data...")
	if err = writeFile(this.edgesFile, res.WriteEdges); err != nil {
		return err
	}
	if this.obstaclesFile != "" {
		if err = writeFile(this.obstaclesFile, res.WriteObstacles); err != nil {
			return err
		}
	}

	records := res.Records()
	if len(records) > 0 {
		color.Red("%d of %d edges are leaking (%d obstacles)", len(records), numPairs, len(res.Obstacles))
	} else {
		color.Green("No leaking edges found in %d cell pairs", numPairs)
	}
	if n := len(res.Warnings); n > 0 {
		color.Yellow("%d warnings", n)
		for i, w := range res.Warnings {
			if i == maxListedWarnings {
				printf("  ... and %d more\n", n-maxListedWarnings)
				break
			}
			println("  " + w.String())
		}
	}

	println("Operation complete!")
	printf("Elapsed time (excluding file I/O): %s\n", elapsed)
	printf("Elapsed time (total): %s\n", time.Since(start1))
	return nil
}

func writeFile(fileName string, write func(io.Writer) error) error {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "creating %s", fileName)
	}
	if err = write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", fileName)
	}
	return f.Close()
}
