package ghost

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/mpihlak/ebiten-boatrace/pkg/geometry"
)

var (
	ErrMalformed         = errors.New("malformed ghost data")
	ErrMissingFrames     = errors.New("ghost data has no frames")
	ErrFramesNotSequence = errors.New("ghost frames are not a list")
	ErrUnordered         = errors.New("ghost frame times go backwards")
)

type Format int

const (
	JSON Format = iota
	JSONZstd
	MsgPack
	MsgPackZstd
)

func (f Format) String() string {
	switch f {
	case JSONZstd:
		return "json+zstd"
	case MsgPack:
		return "msgpack"
	case MsgPackZstd:
		return "msgpack+zstd"
	default:
		return "json"
	}
}

// Extension is the file suffix for f.
func (f Format) Extension() string {
	switch f {
	case JSONZstd:
		return ".json.zst"
	case MsgPack:
		return ".msgpack"
	case MsgPackZstd:
		return ".msgpack.zst"
	default:
		return ".json"
	}
}

func (f Format) compressed() bool {
	return f == JSONZstd || f == MsgPackZstd
}

func (f Format) binary() bool {
	return f == MsgPack || f == MsgPackZstd
}

// FormatForPath picks the format from the file name. Anything unrecognized is
// read and written as JSON.
func FormatForPath(path string) Format {
	p := strings.ToLower(path)
	switch {
	case strings.HasSuffix(p, ".msgpack.zst"):
		return MsgPackZstd
	case strings.HasSuffix(p, ".zst"):
		return JSONZstd
	case strings.HasSuffix(p, ".msgpack"):
		return MsgPack
	default:
		return JSON
	}
}

type frame struct {
	Time    float64 `json:"time" msgpack:"time"`
	X       float64 `json:"x" msgpack:"x"`
	Y       float64 `json:"y" msgpack:"y"`
	Heading float64 `json:"heading" msgpack:"heading"`
}

type document struct {
	TrackKey string  `json:"trackKey,omitempty" msgpack:"trackKey,omitempty"`
	Frames   []frame `json:"frames" msgpack:"frames"`
}

func toDocument(tr *Trajectory) document {
	doc := document{TrackKey: tr.TrackKey, Frames: make([]frame, len(tr.Samples))}
	for i, s := range tr.Samples {
		doc.Frames[i] = frame{Time: s.Time, X: s.Pos.X, Y: s.Pos.Y, Heading: s.Heading}
	}
	return doc
}

func fromFrames(trackKey string, frames []frame) (*Trajectory, error) {
	tr := &Trajectory{TrackKey: trackKey, Samples: make([]Sample, len(frames))}
	for i, f := range frames {
		tr.Samples[i] = Sample{Time: f.Time, Pos: geometry.Point{X: f.X, Y: f.Y}, Heading: f.Heading}
	}
	if !tr.Ordered() {
		return nil, ErrUnordered
	}
	return tr, nil
}

// Encode writes tr to w.
func Encode(w io.Writer, tr *Trajectory, f Format) error {
	doc := toDocument(tr)

	if !f.compressed() {
		return encodeDocument(w, doc, f)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := encodeDocument(zw, doc, f); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func encodeDocument(w io.Writer, doc document, f Format) error {
	if f.binary() {
		return msgpack.NewEncoder(w).Encode(doc)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(doc)
}

// Decode reads a trajectory from r. Nothing is returned unless the whole
// document is valid.
func Decode(r io.Reader, f Format) (*Trajectory, error) {
	if f.compressed() {
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		defer zr.Close()
		r = zr
	}

	if f.binary() {
		return decodeMsgPack(r)
	}
	return decodeJSON(r)
}

func decodeJSON(r io.Reader) (*Trajectory, error) {
	var doc struct {
		TrackKey string          `json:"trackKey"`
		Frames   json.RawMessage `json:"frames"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	raw := bytes.TrimSpace(doc.Frames)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrMissingFrames
	}
	if raw[0] != '[' {
		return nil, ErrFramesNotSequence
	}

	var frames []frame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromFrames(doc.TrackKey, frames)
}

func decodeMsgPack(r io.Reader) (*Trajectory, error) {
	var doc struct {
		TrackKey string             `msgpack:"trackKey"`
		Frames   msgpack.RawMessage `msgpack:"frames"`
	}
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(doc.Frames) == 0 || doc.Frames[0] == msgpcode.Nil {
		return nil, ErrMissingFrames
	}
	if c := doc.Frames[0]; !msgpcode.IsFixedArray(c) && c != msgpcode.Array16 && c != msgpcode.Array32 {
		return nil, ErrFramesNotSequence
	}

	var frames []frame
	if err := msgpack.Unmarshal(doc.Frames, &frames); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromFrames(doc.TrackKey, frames)
}
