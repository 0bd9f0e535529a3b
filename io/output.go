package io

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/icza/mjpeg"
	"github.com/pkg/errors"
)

// JPEGQuality is the quality of AVI frames.
const JPEGQuality = 90

// FrameWriter exports a sequence of rendered frames.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	// Close flushes any buffered frames and releases the output.
	Close() error
	// Frames returns the number of frames written so far.
	Frames() int
}

// NewFrameWriter returns a writer for the given format. frames is the
// expected number of frames and is only used to name PNG files.
func NewFrameWriter(
	format Format, output string, width, height, fps, frames int,
) (FrameWriter, error) {
	switch format {
	case PNG:
		return &pngWriter{pattern: FramePattern(output, frames)}, nil
	case GIF:
		return newGIFWriter(output, fps), nil
	case AVI:
		return newAVIWriter(output, width, height, fps)
	}
	return nil, fmt.Errorf("Unrecognized frame format %d.", format)
}

// FramePattern returns the printf pattern used to name the frames of a PNG
// series. A single frame is written to output itself. Outputs without a
// verb get a zero-padded index before their extension.
func FramePattern(output string, frames int) string {
	if strings.Contains(output, "%") || frames <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_%04d" + ext
}

// WritePNG writes a single image.
func WritePNG(file string, img image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrapf(err, "creating %s", file)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", file)
	}
	return errors.Wrapf(f.Close(), "closing %s", file)
}

type pngWriter struct {
	pattern string
	n       int
}

func (w *pngWriter) WriteFrame(img image.Image) error {
	file := w.pattern
	if strings.Contains(w.pattern, "%") {
		file = fmt.Sprintf(w.pattern, w.n)
	}
	if err := WritePNG(file, img); err != nil {
		return err
	}
	w.n++
	return nil
}

func (w *pngWriter) Close() error { return nil }
func (w *pngWriter) Frames() int  { return w.n }

// gifWriter quantizes frames to the Plan 9 palette and encodes the whole
// animation on Close.
type gifWriter struct {
	file  string
	delay int
	out   *gif.GIF
}

func newGIFWriter(file string, fps int) *gifWriter {
	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}
	return &gifWriter{file: file, delay: delay, out: &gif.GIF{LoopCount: 0}}
}

func (w *gifWriter) WriteFrame(img image.Image) error {
	pimg := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, img.Bounds().Min)
	w.out.Image = append(w.out.Image, pimg)
	w.out.Delay = append(w.out.Delay, w.delay)
	return nil
}

func (w *gifWriter) Close() error {
	if len(w.out.Image) == 0 {
		return nil
	}
	f, err := os.Create(w.file)
	if err != nil {
		return errors.Wrapf(err, "creating %s", w.file)
	}
	if err := gif.EncodeAll(f, w.out); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", w.file)
	}
	return errors.Wrapf(f.Close(), "closing %s", w.file)
}

func (w *gifWriter) Frames() int { return len(w.out.Image) }

// aviWriter stores JPEG-compressed frames in an MJPEG AVI.
type aviWriter struct {
	file string
	aw   mjpeg.AviWriter
	buf  bytes.Buffer
	n    int
}

func newAVIWriter(file string, width, height, fps int) (*aviWriter, error) {
	aw, err := mjpeg.New(file, int32(width), int32(height), int32(fps))
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", file)
	}
	return &aviWriter{file: file, aw: aw}, nil
}

func (w *aviWriter) WriteFrame(img image.Image) error {
	w.buf.Reset()
	if err := jpeg.Encode(&w.buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return errors.Wrapf(err, "encoding frame %d of %s", w.n, w.file)
	}
	if err := w.aw.AddFrame(w.buf.Bytes()); err != nil {
		return errors.Wrapf(err, "writing frame %d of %s", w.n, w.file)
	}
	w.n++
	return nil
}

func (w *aviWriter) Close() error {
	return errors.Wrapf(w.aw.Close(), "closing %s", w.file)
}

func (w *aviWriter) Frames() int { return w.n }
