// Package corpus loads recorded messages and runs round trips over them,
// either in process or against a running service.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/mmolbparse/internal/domain/model"
	"gopkg.in/yaml.v3"
)

// Format is a corpus encoding.
type Format string

// Corpus formats.
const (
	FormatJSONLines Format = "jsonl"
	FormatJSON      Format = "json"
	FormatYAML      Format = "yaml"
)

// ErrUnknownFormat is returned for files whose extension names no format.
var ErrUnknownFormat = errors.New("unknown corpus format")

// maxLine bounds one JSON-lines record.
const maxLine = 1 << 20

// FormatOf picks a format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONLines, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Load reads every message in the file at path.
func Load(path string) ([]model.Message, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	msgs, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return msgs, nil
}

// yamlCorpus is the document shape of a YAML corpus. A bare list of messages
// is accepted too.
type yamlCorpus struct {
	Messages []model.Message `yaml:"messages"`
}

// Read decodes messages from r. Messages without an ID get a positional one
// ("line-N" or "entry-N") so results can be traced back to the file.
func Read(r io.Reader, format Format) ([]model.Message, error) {
	var (
		msgs []model.Message
		err  error
	)
	switch format {
	case FormatJSONLines:
		msgs, err = readJSONLines(r)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&msgs)
	case FormatYAML:
		msgs, err = readYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	for i := range msgs {
		if msgs[i].ID == "" && format != FormatJSONLines {
			msgs[i].ID = fmt.Sprintf("entry-%d", i+1)
		}
		if err := msgs[i].Validate(); err != nil {
			return nil, fmt.Errorf("message %s: %w", msgs[i].ID, err)
		}
	}
	return msgs, nil
}

func readJSONLines(r io.Reader) ([]model.Message, error) {
	var msgs []model.Message
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		var msg model.Message
		if err := json.Unmarshal(b, &msg); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if msg.ID == "" {
			msg.ID = fmt.Sprintf("line-%d", line)
		}
		msgs = append(msgs, msg)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return msgs, nil
}

func readYAML(r io.Reader) ([]model.Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var msgs []model.Message
		if err := node.Content[0].Decode(&msgs); err != nil {
			return nil, err
		}
		return msgs, nil
	}
	var doc yamlCorpus
	if err := node.Content[0].Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Messages, nil
}
