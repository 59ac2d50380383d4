package internal

import (
	"io"
	"strings"
	"unicode/utf8"
)

// StreamDecoder turns a raw byte source into UTF-8 text fragments.
//
// It is pull-based: Next issues at most one outstanding Read against the
// source and returns whatever decodable text that read produced. Bytes
// that do not yet form a complete rune are held in a residual buffer and
// prepended to the next read. Invalid byte sequences decode to the
// replacement character rather than failing the stream.
type StreamDecoder struct {
	src      io.ReadCloser
	buf      []byte
	residual []byte
	eof      bool
}

// NewStreamDecoder creates a StreamDecoder reading from src. Closing the
// decoder closes src, so abandoning the pull loop releases the source.
func NewStreamDecoder(src io.ReadCloser) *StreamDecoder {
	return &StreamDecoder{
		src: src,
		buf: make([]byte, 4096),
	}
}

// Next returns the next decoded text fragment in arrival order. It returns
// io.EOF after the source is exhausted and any residual bytes have been
// flushed. Read errors other than io.EOF are returned as-is; the caller
// decides whether they are transport failures.
func (d *StreamDecoder) Next() (string, error) {
	if d.eof {
		return d.flushResidual()
	}

	for {
		n, err := d.src.Read(d.buf)
		if n > 0 {
			data := make([]byte, 0, len(d.residual)+n)
			data = append(data, d.residual...)
			data = append(data, d.buf[:n]...)
			d.residual = nil

			complete, residual := splitIncompleteRune(data)
			d.residual = residual

			if err == io.EOF {
				d.eof = true
			} else if err != nil {
				d.eof = true
				return decodeLossy(complete), err
			}
			if len(complete) == 0 && !d.eof {
				continue
			}
			return decodeLossy(complete), nil
		}

		if err == io.EOF {
			d.eof = true
			return d.flushResidual()
		}
		if err != nil {
			d.eof = true
			return "", err
		}
	}
}

// Close releases the underlying byte source.
func (d *StreamDecoder) Close() error {
	return d.src.Close()
}

// flushResidual decodes whatever incomplete bytes remain once the source
// is exhausted, then signals end-of-stream.
func (d *StreamDecoder) flushResidual() (string, error) {
	if len(d.residual) > 0 {
		s := decodeLossy(d.residual)
		d.residual = nil
		return s, nil
	}
	return "", io.EOF
}

// splitIncompleteRune cuts a trailing byte sequence that could still grow
// into a valid rune with more input. At most utf8.UTFMax-1 bytes are held
// back; anything already invalid passes through for lossy decoding.
func splitIncompleteRune(data []byte) (complete, residual []byte) {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(data[i]) {
			continue
		}
		if !utf8.FullRune(data[i:]) {
			return data[:i], data[i:]
		}
		break
	}
	return data, nil
}

// decodeLossy decodes bytes as UTF-8, replacing invalid sequences with the
// replacement character.
func decodeLossy(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
			data = data[1:]
			continue
		}
		sb.WriteRune(r)
		data = data[size:]
	}
	return sb.String()
}
