// strata-check validates and normalizes entity records from files or stdin.
//
// Usage:
//
//	strata-check validate [--shape=entity|breadcrumb|node|hierarchy|search] [--strict] [files...]
//	strata-check normalize [files...]
//	strata-check types
//
// Records may be a JSON object, a JSON array, NDJSON, or YAML documents.
// With no files (or "-"), records are read from stdin.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
