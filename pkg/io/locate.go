package io

import (
	stderrors "errors"

	"github.com/goccy/go-json"

	"github.com/matzehuels/tracefold/pkg/errors"
)

// locate attaches a line and column to a JSON decoding error of data.
// Errors without an offset are returned unchanged.
func locate(data []byte, err error) error {
	var (
		syn *json.SyntaxError
		typ *json.UnmarshalTypeError
	)
	switch {
	case stderrors.As(err, &syn):
		return errors.AtOffset(data, syn.Offset, err)
	case stderrors.As(err, &typ):
		return errors.AtOffset(data, typ.Offset, err)
	}
	return err
}

// withPath names the file in a located decoding error and reports whether
// there was one.
func withPath(err error, path string) bool {
	var le *errors.LineError
	if !stderrors.As(err, &le) {
		return false
	}
	le.Path = path
	return true
}
