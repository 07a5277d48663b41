package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/webp"
)

type Format string

const (
	Native Format = ""
	PNG    Format = "png"
	JPEG   Format = "jpeg"
	GIF    Format = "gif"
	WEBP   Format = "webp"
)

// ParseFormat accepts the usual spellings ("jpg", "JPEG", "native"...).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native", "none":
		return Native, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "webp":
		return WEBP, nil
	default:
		return Native, fmt.Errorf("unsupported image format %q", s)
	}
}

func (f Format) Extension() string {
	switch f {
	case JPEG:
		return "jpg"
	case Native:
		return "png"
	default:
		return string(f)
	}
}

// Writable reports whether f can be used as a transcoding target.
func (f Format) Writable() bool {
	return f == PNG || f == JPEG || f == GIF
}

func (f Format) ContentType() string {
	if f == Native {
		return "image/png"
	}
	return "image/" + string(f)
}

func (f Format) decode(r io.Reader) (image.Image, error) {
	switch f {
	case PNG, Native:
		return png.Decode(r)
	case JPEG:
		return jpeg.Decode(r)
	case GIF:
		return gif.Decode(r)
	case WEBP:
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("cannot read %s images", f)
	}
}

func (f Format) encode(w io.Writer, img image.Image, quality int) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case GIF:
		return gif.Encode(w, img, nil)
	default:
		return fmt.Errorf("cannot write %s images", f)
	}
}

type CodecErrorKind int

const (
	BadEncoding CodecErrorKind = iota
	TranscodeFailed
)

func (k CodecErrorKind) String() string {
	switch k {
	case BadEncoding:
		return "Unable to decode txt2img base64 response"
	case TranscodeFailed:
		return "Unable to transcode txt2img image"
	default:
		return fmt.Sprintf("unknown codec error (%d)", int(k))
	}
}

type CodecError struct {
	Kind CodecErrorKind
	Err  error
}

var (
	ErrBadEncoding     = &CodecError{Kind: BadEncoding}
	ErrTranscodeFailed = &CodecError{Kind: TranscodeFailed}
)

func (e *CodecError) Error() string { return e.Kind.String() }

func (e *CodecError) Unwrap() error { return e.Err }

func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	return ok && t.Kind == e.Kind
}

// trimDataURI cuts a "data:image/*;base64," prefix, if present.
func trimDataURI(base64Str string) string {
	before, after, found := strings.Cut(base64Str, ";base64,")
	if !found {
		return before
	}
	return after
}

// DecodeBase64Image returns the raw bytes of an image as returned by the web UI.
func DecodeBase64Image(base64Str string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(trimDataURI(base64Str))
	if err != nil {
		return nil, &CodecError{Kind: BadEncoding, Err: err}
	}
	if len(data) == 0 {
		return nil, &CodecError{Kind: BadEncoding, Err: errors.New("image payload is empty")}
	}
	return data, nil
}

// Transcode reads data strictly as source and writes it as target.
func Transcode(data []byte, source, target Format, quality int) ([]byte, error) {
	img, err := source.decode(bytes.NewReader(data))
	if err != nil {
		return nil, &CodecError{Kind: TranscodeFailed, Err: fmt.Errorf("reading %s: %w", source.Extension(), err)}
	}

	buf := new(bytes.Buffer)
	if err := target.encode(buf, img, quality); err != nil {
		return nil, &CodecError{Kind: TranscodeFailed, Err: fmt.Errorf("writing %s: %w", target.Extension(), err)}
	}
	return buf.Bytes(), nil
}

const DefaultQuality = 90

// ImageCodec turns the base64 payload of the web UI into an attachment.
// A Native Target skips transcoding and keeps the Source format.
type ImageCodec struct {
	Source  Format
	Target  Format
	Quality int
}

func (c ImageCodec) Format() Format {
	if c.Target == Native {
		if c.Source == Native {
			return PNG
		}
		return c.Source
	}
	return c.Target
}

func (c ImageCodec) Decode(base64Str string) ([]byte, error) {
	data, err := DecodeBase64Image(base64Str)
	if err != nil {
		return nil, err
	}
	if c.Target == Native {
		return data, nil
	}

	quality := c.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	return Transcode(data, c.Source, c.Target, quality)
}
