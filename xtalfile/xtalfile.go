// Package xtalfile encodes crystal structures in the interchange formats the
// downstream simulation and visualization tools read: XSF, CIF and extended
// CFG. XSF is also decodable so stored artifacts can be converted.
package xtalfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/latticelab/xtal/lattice"
)

type EncodeFunc func(w io.Writer, s *lattice.Structure, name string) error
type DecodeFunc func(r io.Reader) (*lattice.Structure, error)

// Format is one supported structure file format. Decode is nil for
// write-only formats.
type Format struct {
	Name   string
	Ext    string
	Encode EncodeFunc
	Decode DecodeFunc
}

var formats = []Format{
	{Name: "xsf", Ext: ".xsf", Encode: EncodeXSF, Decode: DecodeXSF},
	{Name: "cif", Ext: ".cif", Encode: EncodeCIF},
	{Name: "cfg", Ext: ".cfg", Encode: EncodeCFG},
}

// Formats returns the supported format names in registration order.
func Formats() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.Name
	}
	return out
}

// ByName resolves a format by name (case-insensitive).
func ByName(name string) (Format, error) {
	name = strings.ToLower(name)
	for _, f := range formats {
		if f.Name == name {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("unknown structure format %q (want one of %s)",
		name, strings.Join(Formats(), ", "))
}

// ByExt resolves a format by file extension like ".xsf".
func ByExt(ext string) (Format, error) {
	ext = strings.ToLower(ext)
	for _, f := range formats {
		if f.Ext == ext {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("no structure format for extension %q", ext)
}

// Encode writes s to w in the named format.
func Encode(w io.Writer, s *lattice.Structure, format, name string) error {
	f, err := ByName(format)
	if err != nil {
		return err
	}
	return f.Encode(w, s, name)
}

// Decode reads a structure from r in the named format.
func Decode(r io.Reader, format string) (*lattice.Structure, error) {
	f, err := ByName(format)
	if err != nil {
		return nil, err
	}
	if f.Decode == nil {
		return nil, fmt.Errorf("format %q is write-only", f.Name)
	}
	return f.Decode(r)
}
