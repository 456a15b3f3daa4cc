// Package evaluation replays recorded tickets against a running suggest API
// and checks each reply against the expected policy and the guardrails.
package evaluation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Case is one line of a JSONL case file.
type Case struct {
	Name         string          `json:"name"`
	ID           any             `json:"id"`
	Input        json.RawMessage `json:"input"`
	ExpectPolicy *string         `json:"expect_policy"`
}

// DisplayName is the case name, or "id-<id>" when unnamed.
func (c Case) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.ID == nil {
		return "id-"
	}
	return fmt.Sprintf("id-%v", c.ID)
}

// LoadCases parses JSONL, skipping blank lines.
func LoadCases(r io.Reader) ([]Case, error) {
	var cases []Case
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var c Case
		if err := json.Unmarshal([]byte(text), &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(c.Input) == 0 {
			return nil, fmt.Errorf("line %d: missing input", line)
		}
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	return cases, nil
}
