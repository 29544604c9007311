package yaml

import (
	"bytes"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	strictMode  = true
	indentWidth = 2
)

// Codec decodes config files and encodes command results. JSON is a subset of YAML so
// JSON documents decode too.
type Codec struct{}

// NewCodec returns a new YAML Codec implementation.
func NewCodec() *Codec {
	return &Codec{}
}

// Decode decodes in into v. Fields that don't exist in v are rejected.
func (c *Codec) Decode(in []byte, v interface{}) error {
	d := yaml.NewDecoder(bytes.NewReader(in))
	d.KnownFields(strictMode)
	return d.Decode(v)
}

// DecodeFile decodes the file at path into v.
func (c *Codec) DecodeFile(path string, v interface{}) error {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "could not read '%s'", path)
	}

	if len(bytes.TrimSpace(buf)) == 0 {
		return nil
	}

	if err := c.Decode(buf, v); err != nil {
		return errors.Wrapf(err, "could not decode '%s'", path)
	}
	return nil
}

// Encode returns the YAML encoding of in with 2 space indentation.
func (c *Codec) Encode(in interface{}) ([]byte, error) {
	var buf bytes.Buffer
	e := yaml.NewEncoder(&buf)
	e.SetIndent(indentWidth)

	if err := e.Encode(in); err != nil {
		return nil, err
	}

	if err := e.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
