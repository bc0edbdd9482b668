// Package report renders an aggregation result as a JSON document and as a
// line-oriented console summary.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trivia/internal/trivia/models"
)

const rule = "================================================================================"

// Marshal encodes the result as indented UTF-8 JSON without HTML escaping.
func Marshal(result *models.AggregationResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the encoded result to w.
func WriteJSON(w io.Writer, result *models.AggregationResult) error {
	data, err := Marshal(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes the encoded result to path through a temporary file in
// the same directory, so readers never observe a partial document.
func WriteFile(path string, result *models.AggregationResult) error {
	data, err := Marshal(result)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// Summary prints one numbered block per question followed by one WARNING
// line per skipped source.
func Summary(w io.Writer, result *models.AggregationResult) error {
	var b strings.Builder
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "SUMMARY (%d questions)\n", result.TotalCount)
	b.WriteString(rule + "\n")

	for i, q := range result.Questions {
		category := q.CategoryLabel()
		if category == "" {
			category = string(models.Unclassified)
		}
		fmt.Fprintf(&b, "\n%d. [%s]\n", i+1, q.Source)
		fmt.Fprintf(&b, "   Question: %s\n", q.Question)
		fmt.Fprintf(&b, "   Category: %s\n", category)
		fmt.Fprintf(&b, "   Difficulty: %s\n", q.Difficulty)
		fmt.Fprintf(&b, "   Correct answer: %s\n", q.CorrectAnswer)
	}

	if len(result.Skipped) > 0 {
		b.WriteString("\n")
	}
	for _, sk := range result.Skipped {
		fmt.Fprintf(&b, "WARNING %s skipped (%s): %s\n", sk.Source, sk.Kind, sk.Reason)
	}

	b.WriteString("\n" + rule + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}
