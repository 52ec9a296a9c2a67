package sdk

import (
	"runtime"
	"sort"
)

// markerTool is the executable whose presence marks a build-tools directory
// as a usable release. Every shipped build-tools version carries it.
const markerTool = "aapt"

var recognizedTools = map[string]struct{}{
	"aapt":      {},
	"aapt2":     {},
	"adb":       {},
	"apksigner": {},
	"d8":        {},
	"zipalign":  {},
}

// ToolNames returns the recognized SDK tool names.
func ToolNames() []string {
	names := make([]string, 0, len(recognizedTools))
	for name := range recognizedTools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsTool reports whether name is a recognized SDK tool.
func IsTool(name string) bool {
	_, ok := recognizedTools[name]
	return ok
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
