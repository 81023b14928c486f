package invocation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/cockroachdb/errors"
)

// Step is a single contract call in an invocation file. Every field is optional
// so a step can sit in the file as a placeholder while it is being filled in.
type Step struct {
	Contract  string `json:"contract,omitempty"`  // Contract name, path or 0x-prefixed script hash
	Operation string `json:"operation,omitempty"` // Method to invoke
	Args      []any  `json:"args,omitempty"`      // Positional arguments, passed through as JSON. Numbers are json.Number
}

// File is the ordered list of steps stored in an invocation file.
// Steps are identified by their position only.
type File []Step

var contractHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsContractHash reports whether the contract field holds a script hash rather than a name or path.
func (s Step) IsContractHash() bool {
	return contractHashPattern.MatchString(s.Contract)
}

// ParseError is returned when the invocation file is not well-formed JSON.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads the text of an invocation file. Blank text is an empty file and
// a single top-level object is accepted as a file with one step.
func Parse(text string) (File, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 {
		return File{}, nil
	}

	var file File
	var err error
	switch data[0] {
	case '{':
		var step Step
		err = decode(data, &step)
		file = File{step}
	default:
		err = decode(data, &file)
	}
	if err != nil {
		return nil, newParseError(data, err)
	}

	if file == nil {
		return File{}, nil
	}
	for i := range file {
		file[i] = normalize(file[i])
	}
	return file, nil
}

// decode keeps numbers as their literal text so amounts above 2^53 survive a
// parse and serialize cycle. Only a single JSON value is accepted.
func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	offset := dec.InputOffset()
	if _, err := dec.Token(); err != io.EOF {
		return &trailingDataError{offset: offset}
	}
	return nil
}

type trailingDataError struct {
	offset int64
}

func (e *trailingDataError) Error() string {
	return "unexpected data after top-level value"
}

func newParseError(data []byte, err error) *ParseError {
	pe := &ParseError{Err: errors.Wrap(err, "invalid invocation file")}

	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var trailingErr *trailingDataError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	case errors.As(err, &trailingErr):
		offset = trailingErr.offset
	case errors.Is(err, io.ErrUnexpectedEOF):
		offset = int64(len(data))
	default:
		return pe
	}

	pe.Line, pe.Column = 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			pe.Line++
			pe.Column = 1
		} else {
			pe.Column++
		}
	}
	return pe
}

// Serialize renders the file as a 2-space indented JSON array. The output is
// always accepted by Parse and parses back to an equal file.
func Serialize(file File) (string, error) {
	if file == nil {
		file = File{}
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "serializing invocation file")
	}
	return string(data), nil
}

// empty argument lists are dropped on the wire, so they are dropped here as well
func normalize(step Step) Step {
	if len(step.Args) == 0 {
		step.Args = nil
	}
	return step
}
