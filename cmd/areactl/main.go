// Command areactl prints the area detected in one or more drawings.
//
//	areactl [-engine ledongthuc|tabula] [-tmp dir] [-json] file...
//
// Each line is "file<TAB>area_m2", followed by a diagnostic column when the
// drawing could not be read. Unreadable drawings do not change the exit status.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"furnicost/internal/extraction"
	"furnicost/internal/logging"
)

type fileResult struct {
	File string `json:"file"`
	extraction.Result
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the exit status so deferred calls complete before os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("areactl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	engine := fs.String("engine", extraction.EngineLedongthuc, "PDF text engine (ledongthuc or tabula)")
	tmpDir := fs.String("tmp", "", "directory for temporary drawing files")
	asJSON := fs.Bool("json", false, "print one JSON object per file")
	logLevel := fs.String("log-level", "warn", "log level written to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: areactl [options] file...\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log := logging.NewWithWriter(stderr, *logLevel, nil)
	defer log.Sync() //nolint:errcheck

	source, err := extraction.NewTextSource(*engine, *tmpDir)
	if err != nil {
		log.Error("invalid_engine", zap.String("engine", *engine), zap.Error(err))
		return 2
	}
	x := extraction.NewExtractor(source, *tmpDir, extraction.WithLogger(log))

	status := 0
	enc := json.NewEncoder(stdout)
	for _, name := range fs.Args() {
		data, err := os.ReadFile(name)
		if err != nil {
			log.Error("read_failed", zap.String("file", name), zap.Error(err))
			status = 1
			continue
		}

		res := x.Extract(data, filepath.Ext(name))
		if *asJSON {
			if err := enc.Encode(fileResult{File: name, Result: res}); err != nil {
				log.Error("write_failed", zap.String("file", name), zap.Error(err))
				return 1
			}
			continue
		}
		if res.Diagnostic != "" {
			fmt.Fprintf(stdout, "%s\t%.2f\t%s\n", name, res.AreaM2, res.Diagnostic)
		} else {
			fmt.Fprintf(stdout, "%s\t%.2f\n", name, res.AreaM2)
		}
	}
	return status
}
