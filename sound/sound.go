// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sound is the PCM WAV collaborator: sequential reads into
// normalized [−1, 1] float32 buffers and writes with per-depth clamping and
// quantization. 8, 16 and 32 bit integer formats are supported.
package sound

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrFormat reports an unreadable or unsupported wav file.
var ErrFormat = errors.New("unsupported wav format")

// Reader decodes a mono or multichannel PCM wav file.
type Reader struct {
	file    *os.File
	decoder *wav.Decoder
	buf     *audio.IntBuffer

	pos int
}

// OpenReader opens a wav file and validates its header.
func OpenReader(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("sound: %s: %w", filename, ErrFormat)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		f.Close()
		return nil, err
	}
	switch buf.SourceBitDepth {
	case 8, 16, 24, 32:
	default:
		f.Close()
		return nil, fmt.Errorf("sound: bit depth %d: %w", buf.SourceBitDepth, ErrFormat)
	}
	return &Reader{file: f, decoder: d, buf: buf}, nil
}

// SampleRate returns the file sample rate.
func (r *Reader) SampleRate() int { return int(r.decoder.SampleRate) }

// BitDepth returns the source bit depth.
func (r *Reader) BitDepth() int { return r.buf.SourceBitDepth }

// Channels returns the channel count.
func (r *Reader) Channels() int { return int(r.decoder.NumChans) }

// TotalSamples returns the interleaved sample count.
func (r *Reader) TotalSamples() int { return len(r.buf.Data) }

// Read fills dst with the next normalized samples, returning the count.
// Interleaved channels come through as stored.
func (r *Reader) Read(dst []float32) int {
	n := 0
	for n < len(dst) && r.pos < len(r.buf.Data) {
		dst[n] = normSample(r.buf.Data[r.pos], r.buf.SourceBitDepth)
		n++
		r.pos++
	}
	return n
}

// ReadAll returns the whole file normalized.
func (r *Reader) ReadAll() []float32 {
	out := make([]float32, r.TotalSamples()-r.pos)
	r.Read(out)
	return out
}

// Close releases the file.
func (r *Reader) Close() error { return r.file.Close() }

func normSample(v int, depth int) float32 {
	switch depth {
	case 8:
		return float32(v) / 0x7F
	case 16:
		return float32(v) / 0x7FFF
	case 24:
		return float32(v) / 0x7FFFFF
	default:
		return float32(v) / 0x7FFFFFFF
	}
}

// Writer encodes normalized float samples to an integer PCM wav file,
// clamping to [−1, 1] and quantizing per the bit depth.
type Writer struct {
	file    *os.File
	encoder *wav.Encoder

	sampleRate int
	bitDepth   int
	channels   int
}

// OpenWriter creates a wav file with the given format. bitDepth must be 8,
// 16 or 32.
func OpenWriter(filename string, sampleRate, bitDepth, channels int) (*Writer, error) {
	switch bitDepth {
	case 8, 16, 32:
	default:
		return nil, fmt.Errorf("sound: bit depth %d: %w", bitDepth, ErrFormat)
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	return &Writer{
		file:       f,
		encoder:    enc,
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
	}, nil
}

// Write appends normalized samples.
func (w *Writer) Write(data []float32) error {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: w.channels, SampleRate: w.sampleRate},
		SourceBitDepth: w.bitDepth,
		Data:           make([]int, len(data)),
	}
	var full float32
	switch w.bitDepth {
	case 8:
		full = 0x7F
	case 16:
		full = 0x7FFF
	default:
		full = 0x7FFFFFFF
	}
	for i, v := range data {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		buf.Data[i] = int(v * full)
	}
	return w.encoder.Write(buf)
}

// Close finalizes the header and releases the file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
