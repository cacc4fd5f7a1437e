package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
)

// ICO container layout: a 6-byte ICONDIR header, one 16-byte
// ICONDIRENTRY per frame, then the frame data. Frames are stored as
// PNG, which favicon consumers have accepted since Vista.

type icoDirEntry struct {
	Width    uint8
	Height   uint8
	Colors   uint8
	Reserved uint8
	Planes   uint16
	BitCount uint16
	Size     uint32
	Offset   uint32
}

// EncodeICO writes the frames as a single ICO stream.
func EncodeICO(w io.Writer, frames []image.Image) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}

	encoded := make([][]byte, len(frames))
	for i, frame := range frames {
		var buf bytes.Buffer
		if err := pngEncoder.Encode(&buf, frame); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
		encoded[i] = buf.Bytes()
	}

	header := []uint16{0, 1, uint16(len(frames))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write icon header: %w", err)
	}

	offset := 6 + 16*len(frames)
	for i, frame := range frames {
		bounds := frame.Bounds()
		entry := icoDirEntry{
			Width:    icoDimension(bounds.Dx()),
			Height:   icoDimension(bounds.Dy()),
			Planes:   1,
			BitCount: 32,
			Size:     uint32(len(encoded[i])),
			Offset:   uint32(offset),
		}
		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return fmt.Errorf("failed to write icon entry %d: %w", i, err)
		}
		offset += len(encoded[i])
	}

	for _, data := range encoded {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write icon frame: %w", err)
		}
	}
	return nil
}

// icoDimension maps a pixel size to the entry byte, where 0 means 256.
func icoDimension(size int) uint8 {
	if size >= 256 {
		return 0
	}
	return uint8(size)
}

func writeICO(path string, frames []image.Image) error {
	var buf bytes.Buffer
	if err := EncodeICO(&buf, frames); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
