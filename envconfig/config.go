// Package envconfig reads trainer settings from ALTBPE_* environment
// variables. LoadConfig is called once at CLI startup; flags override
// the values read here.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

var (
	// Set via ALTBPE_DEBUG in the environment
	Debug bool
	// Set via ALTBPE_TRACE in the environment
	Trace bool
	// Set via ALTBPE_DB in the environment
	Database string
	// Set via ALTBPE_NUM_WORKERS in the environment
	NumWorkers int
	// Set via ALTBPE_MAX_MERGES in the environment
	MaxMerges int
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"ALTBPE_DEBUG":       {"ALTBPE_DEBUG", Debug, "Show additional debug information (e.g. ALTBPE_DEBUG=1)"},
		"ALTBPE_TRACE":       {"ALTBPE_TRACE", Trace, "Log individual symbol splices during merging"},
		"ALTBPE_DB":          {"ALTBPE_DB", Database, "Default SQLite database for trained artifacts"},
		"ALTBPE_NUM_WORKERS": {"ALTBPE_NUM_WORKERS", NumWorkers, "Workers for the pair-statistics scan (default: number of CPUs)"},
		"ALTBPE_MAX_MERGES":  {"ALTBPE_MAX_MERGES", MaxMerges, "Default merge-round budget for training"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func LoadConfig() {
	Debug = clean("ALTBPE_DEBUG") != ""
	Trace = clean("ALTBPE_TRACE") != ""
	Database = clean("ALTBPE_DB")

	NumWorkers = runtime.NumCPU()
	if w, err := strconv.Atoi(clean("ALTBPE_NUM_WORKERS")); err == nil && w > 0 {
		NumWorkers = w
	} else if v := clean("ALTBPE_NUM_WORKERS"); v != "" {
		slog.Warn("invalid setting ignored", "ALTBPE_NUM_WORKERS", v)
	}

	MaxMerges = 0
	if m, err := strconv.Atoi(clean("ALTBPE_MAX_MERGES")); err == nil && m > 0 {
		MaxMerges = m
	} else if v := clean("ALTBPE_MAX_MERGES"); v != "" {
		slog.Warn("invalid setting ignored", "ALTBPE_MAX_MERGES", v)
	}
}

func init() {
	LoadConfig()
}
