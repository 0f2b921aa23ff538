// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// This file was originally created by John Lindsay<jlindsay@uoguelph.ca>,
// Feb. 2015.

// Package tools holds the command line tools and the manager that looks
// them up by name.
package tools

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var println = fmt.Println
var printf = fmt.Printf
var print = fmt.Print
var pathSep string = string(os.PathSeparator)

var ErrUnknownTool = errors.New("Unrecognized tool name. Type 'listtools' for a list of available tools.")
var ErrMissingArguments = errors.New("Not enough tool arguments. Type 'toolargs' followed by the tool name for details.")

type PluginToolManager struct {
	workingDirectory string
	mapOfPluginTools map[string]PluginTool

	// Quiet turns off progress bars.
	Quiet  bool
	Logger *slog.Logger
}

func (ptm *PluginToolManager) InitializeTools() {
	// each new tool needs a two-line entry below
	ptm.mapOfPluginTools = make(map[string]PluginTool)

	ld := new(LeakDetector)
	ptm.mapOfPluginTools[strings.ToLower(ld.GetName())] = ld
}

// GetListOfTools returns the tools sorted by name.
func (ptm *PluginToolManager) GetListOfTools() []PluginTool {
	ret := make(PluginToolList, 0, len(ptm.mapOfPluginTools))
	for _, val := range ptm.mapOfPluginTools {
		ret = append(ret, val)
	}
	sort.Sort(ret)
	return ret
}

func (ptm *PluginToolManager) lookup(toolName string) (PluginTool, error) {
	toolName = strings.ToLower(getFormattedToolName(toolName))
	if tool, ok := ptm.mapOfPluginTools[toolName]; ok {
		tool.SetToolManager(ptm)
		return tool, nil
	}
	return nil, errors.Wrapf(ErrUnknownTool, "%q", toolName)
}

// Run asks for the tool arguments on the console and runs the tool.
func (ptm *PluginToolManager) Run(toolName string) error {
	tool, err := ptm.lookup(toolName)
	if err != nil {
		return err
	}
	println(GetHeaderText(tool.GetName()))
	return tool.CollectArguments()
}

func (ptm *PluginToolManager) RunWithArguments(toolName string, args []string) error {
	tool, err := ptm.lookup(toolName)
	if err != nil {
		return err
	}
	println(GetHeaderText(tool.GetName()))
	return tool.ParseArguments(args)
}

func (ptm *PluginToolManager) GetToolArgDescriptions(toolName string) ([]string, error) {
	tool, err := ptm.lookup(toolName)
	if err != nil {
		return nil, err
	}
	descEntries := tool.GetArgDescriptions()
	lenToolName := 0
	lenDataType := 0
	for _, val := range descEntries {
		if len(val[0]) > lenToolName {
			lenToolName = len(val[0])
		}
		if len(val[1]) > lenDataType {
			lenDataType = len(val[1])
		}
	}

	lenToolName += 2
	lenDataType += 2

	ret := make([]string, len(descEntries))
	for i, val := range descEntries {
		ret[i] = TrailingSpaces(val[0], lenToolName) + TrailingSpaces(val[1], lenDataType) + val[2]
	}
	return ret, nil
}

func (ptm *PluginToolManager) GetToolHelp(toolName string) (string, error) {
	tool, err := ptm.lookup(toolName)
	if err != nil {
		return "", err
	}
	return tool.GetHelpDocumentation(), nil
}

func (ptm *PluginToolManager) SetWorkingDirectory(wd string) {
	if !strings.HasSuffix(wd, pathSep) {
		wd += pathSep
	}
	ptm.workingDirectory = wd
}

func (ptm *PluginToolManager) logger() *slog.Logger {
	if ptm.Logger != nil {
		return ptm.Logger
	}
	return slog.Default()
}

// resolvePath places bare file names in the working directory.
func (ptm *PluginToolManager) resolvePath(fileName string) string {
	fileName = strings.TrimSpace(fileName)
	if fileName != "" && !strings.Contains(fileName, pathSep) {
		fileName = ptm.workingDirectory + fileName
	}
	return fileName
}

type PluginTool interface {
	GetName() string
	GetDescription() string
	GetHelpDocumentation() string
	CollectArguments() error
	ParseArguments([]string) error
	GetArgDescriptions() [][]string
	SetToolManager(*PluginToolManager)
}

type PluginToolList []PluginTool

func (ptl PluginToolList) Len() int { return len(ptl) }

func (ptl PluginToolList) Less(i, j int) bool {
	return ptl[i].GetName() < ptl[j].GetName()
}

func (ptl PluginToolList) Swap(i, j int) {
	ptl[i], ptl[j] = ptl[j], ptl[i]
}

func GetHeaderText(str string) string {
	ret := strings.Repeat("*", len(str)+4)
	ret += "\n* " + str + " *\n"
	return ret + strings.Repeat("*", len(str)+4)
}

// TrailingSpaces pads s to maxLen plus one space.
func TrailingSpaces(s string, maxLen int) string {
	sepSpace := maxLen - len(s)
	if sepSpace < 0 {
		sepSpace = 0
	}
	return s + strings.Repeat(" ", sepSpace+1)
}

var maxToolNameLength = 20

func getFormattedToolName(s string) string {
	l := len(s)
	if l > maxToolNameLength {
		l = maxToolNameLength
	}
	return strings.TrimSpace(s[:l])
}

var maxToolDescriptionLength = 55

func getFormattedToolDescription(s string) string {
	l := len(s)
	if l > maxToolDescriptionLength {
		l = maxToolDescriptionLength
	}
	return strings.TrimSpace(s[:l])
}

// notSpecified reports whether an optional argument was left out.
func notSpecified(arg string) bool {
	arg = strings.TrimSpace(arg)
	return arg == "" || strings.EqualFold(arg, "not specified")
}
