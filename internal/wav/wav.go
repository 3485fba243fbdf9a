// Package wav reads and writes 16-bit PCM WAV files for persisted library
// assets. The encoder is canonical: identical buffers always produce
// byte-identical files, which is what makes curation reproducible.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"foley/internal/asset"
)

const (
	formatPCM     = 1
	bitsPerSample = 16
)

// Encode serializes the buffer as a 16-bit PCM WAV stream.
func Encode(w io.Writer, buf *asset.Buffer) error {
	if buf == nil || len(buf.Samples) == 0 {
		return errors.New("wav: empty buffer")
	}
	if buf.SampleRate <= 0 || buf.Channels <= 0 {
		return fmt.Errorf("wav: invalid format %d Hz / %d ch", buf.SampleRate, buf.Channels)
	}

	dataSize := len(buf.Samples) * 2
	blockAlign := buf.Channels * bitsPerSample / 8
	byteRate := buf.SampleRate * blockAlign

	var header bytes.Buffer
	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, uint32(36+dataSize))
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	binary.Write(&header, binary.LittleEndian, uint32(16))
	binary.Write(&header, binary.LittleEndian, uint16(formatPCM))
	binary.Write(&header, binary.LittleEndian, uint16(buf.Channels))
	binary.Write(&header, binary.LittleEndian, uint32(buf.SampleRate))
	binary.Write(&header, binary.LittleEndian, uint32(byteRate))
	binary.Write(&header, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&header, binary.LittleEndian, uint16(bitsPerSample))
	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, uint32(dataSize))

	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}

	pcm := make([]byte, dataSize)
	for i, s := range buf.Samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(quantize(s)))
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("wav: write samples: %w", err)
	}
	return nil
}

// Decode parses a 16-bit PCM WAV stream into a buffer.
func Decode(r io.Reader) (*asset.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wav: read stream: %w", err)
	}
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errors.New("wav: not a RIFF/WAVE stream")
	}

	var (
		channels   int
		sampleRate int
		bits       int
		pcm        []byte
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, errors.New("wav: truncated chunk")
		}
		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, errors.New("wav: short fmt chunk")
			}
			if format := binary.LittleEndian.Uint16(data[body:]); format != formatPCM {
				return nil, fmt.Errorf("wav: unsupported format tag %d", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits = int(binary.LittleEndian.Uint16(data[body+14:]))
		case "data":
			pcm = data[body : body+chunkSize]
		}
		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}

	if channels <= 0 || sampleRate <= 0 {
		return nil, errors.New("wav: missing fmt chunk")
	}
	if bits != bitsPerSample {
		return nil, fmt.Errorf("wav: unsupported bit depth %d", bits)
	}
	if len(pcm) == 0 {
		return nil, errors.New("wav: missing data chunk")
	}

	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768.0
	}
	return &asset.Buffer{Samples: samples, SampleRate: sampleRate, Channels: channels}, nil
}

// WriteFile persists the buffer atomically via a temp file and rename.
func WriteFile(path string, buf *asset.Buffer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("wav: create directory: %w", err)
	}
	var encoded bytes.Buffer
	if err := Encode(&encoded, buf); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, encoded.Bytes(), 0o644); err != nil {
		return fmt.Errorf("wav: write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("wav: rename temp file: %w", err)
	}
	return nil
}

// ReadFile loads a WAV file into a buffer.
func ReadFile(path string) (*asset.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav: open %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file)
}

func quantize(s float64) int16 {
	scaled := math.Round(s * 32767)
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}
