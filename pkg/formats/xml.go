package formats

import (
	"encoding/xml"
	"io"
	"time"
)

// xmlWriter emits an indented element tree token by token. The first error is
// kept and every later call becomes a no-op, so callers check once at close.
type xmlWriter struct {
	w   io.Writer
	enc *xml.Encoder
	err error
}

func newXMLWriter(w io.Writer) *xmlWriter {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &xmlWriter{w: w, enc: enc}
}

func (x *xmlWriter) token(t xml.Token) {
	if x.err != nil {
		return
	}
	x.err = x.enc.EncodeToken(t)
}

// declaration opens every SDF and URDF document on a line of its own.
const declaration = `<?xml version="1.0"?>` + "\n"

// header writes the declaration straight to w. The encoder does not break the
// line after a ProcInst token, so it is kept out of the token stream.
func (x *xmlWriter) header() {
	if x.err != nil {
		return
	}
	_, x.err = io.WriteString(x.w, declaration)
}

// stamp writes the export time as a comment. Zero times are skipped.
func (x *xmlWriter) stamp(t time.Time) {
	if t.IsZero() {
		return
	}
	x.token(xml.Comment(" Exported at " + t.Format(time.RFC3339) + " "))
}

// start opens name with attributes given as key, value pairs.
func (x *xmlWriter) start(name string, attrs ...string) {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	x.token(el)
}

func (x *xmlWriter) end(name string) {
	x.token(xml.EndElement{Name: xml.Name{Local: name}})
}

// text writes <name attrs...>value</name>.
func (x *xmlWriter) text(name, value string, attrs ...string) {
	x.start(name, attrs...)
	x.token(xml.CharData(value))
	x.end(name)
}

// empty writes an element with attributes and no content.
func (x *xmlWriter) empty(name string, attrs ...string) {
	x.start(name, attrs...)
	x.end(name)
}

// close flushes the encoder, verifies every element was closed and ends the
// document with a newline.
func (x *xmlWriter) close() error {
	if x.err != nil {
		return x.err
	}
	if err := x.enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(x.w, "\n")
	return err
}
