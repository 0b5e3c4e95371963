package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scrypster/strata/internal/intake"
)

// batch is the decoded content of one input.
type batch struct {
	source  string
	records []map[string]interface{}
}

// readBatches decodes every named input. "-" or no names reads stdin.
func readBatches(stdin io.Reader, names []string, format intake.Format) ([]batch, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}

	out := make([]batch, 0, len(names))
	for _, name := range names {
		var (
			data   []byte
			err    error
			source = name
		)
		if name == "-" {
			source = "stdin"
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}

		f := format
		if f == intake.FormatAuto {
			f = intake.DetectFormat(name, data)
		}
		records, err := intake.DecodePayload(data, f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", source, err)
		}
		out = append(out, batch{source: source, records: records})
	}
	return out, nil
}
