// Package persist serializes ropes to a JSON snapshot format and
// restores them. Snapshots carry the chunk texts plus redundant length
// and line counts so corruption is detected on load instead of
// surfacing later as inconsistent metrics.
package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/textcore/rope"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// ErrFormat indicates a snapshot that cannot be decoded.
var ErrFormat = errors.New("invalid snapshot format")

// FormatError reports why a snapshot could not be decoded.
type FormatError struct {
	// Reason is a short description of the problem.
	Reason string

	// Version is the version found in the snapshot, or 0 if absent.
	Version int
}

func (e *FormatError) Error() string {
	if e.Version != 0 {
		return fmt.Sprintf("invalid snapshot format: %s (version %d)", e.Reason, e.Version)
	}
	return fmt.Sprintf("invalid snapshot format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// Encode serializes a rope into its JSON snapshot.
func Encode(r rope.Rope) ([]byte, error) {
	out := []byte(`{}`)

	var err error
	if out, err = sjson.SetBytes(out, "version", SnapshotVersion); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "len", r.Len()); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "lines", r.LineCount()); err != nil {
		return nil, err
	}
	if out, err = sjson.SetRawBytes(out, "chunks", []byte(`[]`)); err != nil {
		return nil, err
	}

	it := r.Chunks()
	for it.Next() {
		if out, err = sjson.SetBytes(out, "chunks.-1", it.Chunk().String()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EncodeTo writes a rope's JSON snapshot to w.
func EncodeTo(w io.Writer, r rope.Rope) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode restores a rope from its JSON snapshot. The tree is rebuilt
// from the chunk texts, so a decoded rope is balanced regardless of the
// shape the encoder saw.
func Decode(data []byte) (rope.Rope, error) {
	if !gjson.ValidBytes(data) {
		return rope.Rope{}, &FormatError{Reason: "not valid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return rope.Rope{}, &FormatError{Reason: "top-level value is not an object"}
	}

	version := root.Get("version")
	if !version.Exists() {
		return rope.Rope{}, &FormatError{Reason: "missing version"}
	}
	if v := int(version.Int()); v != SnapshotVersion {
		return rope.Rope{}, &FormatError{Reason: "unsupported version", Version: v}
	}

	chunks := root.Get("chunks")
	if !chunks.IsArray() {
		return rope.Rope{}, &FormatError{Reason: "missing chunks array", Version: SnapshotVersion}
	}

	var b rope.Builder
	for _, c := range chunks.Array() {
		if c.Type != gjson.String {
			return rope.Rope{}, &FormatError{Reason: "chunk is not a string", Version: SnapshotVersion}
		}
		b.WriteString(c.String())
	}
	r := b.Build()

	if want := root.Get("len"); want.Exists() && int(want.Int()) != r.Len() {
		return rope.Rope{}, &FormatError{
			Reason:  fmt.Sprintf("length mismatch: header %d, content %d", want.Int(), r.Len()),
			Version: SnapshotVersion,
		}
	}
	if want := root.Get("lines"); want.Exists() && int(want.Int()) != r.LineCount() {
		return rope.Rope{}, &FormatError{
			Reason:  fmt.Sprintf("line count mismatch: header %d, content %d", want.Int(), r.LineCount()),
			Version: SnapshotVersion,
		}
	}
	return r, nil
}

// DecodeFrom restores a rope from a snapshot read off r.
func DecodeFrom(r io.Reader) (rope.Rope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return rope.Rope{}, err
	}
	return Decode(data)
}
