package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Table holds flattened records. Nested objects become dotted column names and lists stay in
// a single cell. Columns are ordered by their first appearance across the rows.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Flatten converts the JSON encoding of each record into a row of the returned Table.
func Flatten(records ...interface{}) (*Table, error) {
	t := Table{Columns: []string{}, Rows: make([]map[string]interface{}, 0, len(records))}
	seen := map[string]bool{}

	for i, record := range records {
		buf, err := json.Marshal(record)
		if err != nil {
			return nil, errors.Wrapf(err, "could not encode record %d", i)
		}

		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()

		row := map[string]interface{}{}
		var columns []string
		if err := flattenValue(dec, "", row, &columns); err != nil {
			return nil, errors.Wrapf(err, "could not flatten record %d", i)
		}

		for _, c := range columns {
			if !seen[c] {
				seen[c] = true
				t.Columns = append(t.Columns, c)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return &t, nil
}

// flattenValue reads the next value from dec into row under the specified column prefix.
func flattenValue(dec *json.Decoder, prefix string, row map[string]interface{}, columns *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	set := func(v interface{}) {
		if _, ok := row[prefix]; !ok {
			*columns = append(*columns, prefix)
		}
		row[prefix] = v
	}

	switch tok := tok.(type) {
	case json.Delim:
		switch tok {
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				if prefix != "" {
					key = prefix + "." + key
				}
				if err := flattenValue(dec, key, row, columns); err != nil {
					return err
				}
			}
			_, err = dec.Token()
			return err

		case '[':
			items := []interface{}{}
			for dec.More() {
				var item interface{}
				if err := dec.Decode(&item); err != nil {
					return err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			set(items)
			return nil
		}
		return errors.Errorf("unexpected delimiter %s", tok)

	case json.Number:
		if n, err := tok.Int64(); err == nil {
			set(n)
			return nil
		}
		f, err := tok.Float64()
		if err != nil {
			return err
		}
		set(f)

	case string:
		if t, ok := parseTimestamp(tok); ok {
			set(t)
			return nil
		}
		set(tok)

	default:
		// bool or nil
		set(tok)
	}

	return nil
}

// parseTimestamp returns the time represented by s when it is an RFC 3339 timestamp.
func parseTimestamp(s string) (time.Time, bool) {
	if len(s) < len("2006-01-02T15:04:05Z") || s[4] != '-' || s[10] != 'T' {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// jsonText returns the compact JSON encoding of v without HTML escaping.
func jsonText(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
