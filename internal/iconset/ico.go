package iconset

import (
	"encoding/binary"
	"fmt"
	"image"

	"iconforge/internal/icon"
)

const (
	icoDirSize      = 6
	icoDirEntrySize = 16
	icoMaxDim       = 256
)

// EncodeICO wraps a single PNG-compressed image in an ICO container.
// Modern Windows accepts PNG payloads for entries up to 256px; a dimension
// byte of 0 in the directory entry means 256.
func EncodeICO(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 || width > icoMaxDim || height > icoMaxDim {
		return nil, fmt.Errorf("ico dimensions must be 1..%d, got %dx%d", icoMaxDim, width, height)
	}

	pngData, err := icon.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, icoDirSize+icoDirEntrySize+len(pngData))

	// ICONDIR
	binary.LittleEndian.PutUint16(buf[0:2], 0) // reserved
	binary.LittleEndian.PutUint16(buf[2:4], 1) // image type (icon)
	binary.LittleEndian.PutUint16(buf[4:6], 1) // image count

	entry := buf[icoDirSize : icoDirSize+icoDirEntrySize]
	entry[0] = icoDimByte(width)
	entry[1] = icoDimByte(height)
	entry[2] = 0                                  // palette
	entry[3] = 0                                  // reserved
	binary.LittleEndian.PutUint16(entry[4:6], 1)  // color planes
	binary.LittleEndian.PutUint16(entry[6:8], 32) // bits per pixel
	binary.LittleEndian.PutUint32(entry[8:12], uint32(len(pngData)))
	binary.LittleEndian.PutUint32(entry[12:16], uint32(icoDirSize+icoDirEntrySize))

	copy(buf[icoDirSize+icoDirEntrySize:], pngData)
	return buf, nil
}

func icoDimByte(v int) byte {
	if v >= icoMaxDim {
		return 0
	}
	return byte(v)
}
