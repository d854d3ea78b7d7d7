package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// maxCellWidth truncates nested values in table output.
const maxCellWidth = 80

// outputEnvelope writes an API reply in the requested format.
func outputEnvelope(out io.Writer, format string, envelope *untappd.Envelope) error {
	switch format {
	case constants.FormatJSON:
		var buf bytes.Buffer

		err := json.Indent(&buf, envelope.Raw, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}

		buf.WriteByte('\n')
		_, err = buf.WriteTo(out)

		return err
	case constants.FormatYAML:
		body, err := envelope.Body()
		if err != nil {
			return err
		}

		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(constants.JSONIndentSize)

		return encoder.Encode(body)
	case constants.FormatTable, "":
		return envelopeTable(out, envelope)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, format)
	}
}

// envelopeTable shows the meta code and one row per top-level response field.
func envelopeTable(out io.Writer, envelope *untappd.Envelope) error {
	table := tablewriter.NewWriter(out)
	table.Header("Field", "Value")

	if envelope.Meta != nil {
		_ = table.Append("meta.code", strconv.Itoa(envelope.Meta.Code))
	}

	var response map[string]json.RawMessage
	if len(envelope.Response) > 0 {
		// Non-object responses fall back to a single row.
		if json.Unmarshal(envelope.Response, &response) != nil {
			response = map[string]json.RawMessage{"response": envelope.Response}
		}
	}

	keys := make([]string, 0, len(response))
	for key := range response {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_ = table.Append(key, cellValue(response[key]))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func cellValue(raw json.RawMessage) string {
	var text string
	if json.Unmarshal(raw, &text) == nil {
		return text
	}

	var buf bytes.Buffer
	if json.Compact(&buf, raw) != nil {
		return string(raw)
	}

	value := buf.String()
	if len(value) > maxCellWidth {
		value = value[:maxCellWidth-3] + "..."
	}

	return value
}
