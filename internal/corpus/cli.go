package corpus

import (
	"fmt"
	"io"
)

// ShowHelp prints usage information for the roundtrip tool.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `MMOLB Round Trip Tool
=====================

Parses every message of a corpus, prints it back and reports texts that do
not reproduce exactly.

Usage:
  go run ./cmd/roundtrip [options]

Options:
  -corpus string
        Corpus file: .jsonl, .ndjson, .json or .yaml (default $MMOLB_CORPUS_PATH)
  -concurrency int
        Parallel checks (default CPU cores * 2)
  -url string
        Submit to a running service instead of checking in process
  -batch int
        Messages per request in service mode (default 500)
  -timeout duration
        HTTP timeout and the wait for service results (default 30s)
  -verbose
        List parse errors and unknown kinds next to mismatches
  -help
        Show this help message

The tool exits with status 1 when any message is a mismatch.

Examples:
  # Check a recorded corpus in process
  go run ./cmd/roundtrip -corpus testdata/season4.jsonl

  # Check the same corpus through the service
  go run ./cmd/roundtrip -corpus testdata/season4.jsonl -url http://localhost:9080
`)
}
