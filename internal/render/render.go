// Package render writes change breakdowns for humans and machines.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/change-calculator/internal/calculator"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat resolves a case-insensitive format name.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, raw)
	}
}

// Write renders result to w, largest denomination first.
func Write(w io.Writer, format Format, result calculator.ChargeResult) error {
	switch format {
	case FormatText, "":
		return writeText(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteValidationError prints the user-facing message of a validation failure.
func WriteValidationError(w io.Writer, err error) error {
	_, writeErr := fmt.Fprintln(w, err.Error())
	return writeErr
}

func writeText(w io.Writer, result calculator.ChargeResult) error {
	if len(result) == 0 {
		_, err := fmt.Fprintln(w, "no change due")
		return err
	}
	for _, entry := range result.Sorted() {
		if _, err := fmt.Fprintf(w, "%d x %d\n", entry.Denomination, entry.Count); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON emits an object whose keys keep the descending order, which a
// plain map marshal would sort lexically.
func writeJSON(w io.Writer, result calculator.ChargeResult) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range result.Sorted() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(strconv.FormatInt(entry.Denomination, 10))
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(entry.Count, 10))
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func writeYAML(w io.Writer, result calculator.ChargeResult) error {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(result) == 0 {
		node.Style = yaml.FlowStyle
	}
	for _, entry := range result.Sorted() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(entry.Denomination, 10)},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(entry.Count, 10)},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}
