package engine

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
)

const (
	wavSampleRate = 8000
	maxWAVSeconds = 120

	thumbWidth  = 180
	thumbHeight = 320

	videoBytesPerSecond = 64 * 1024
	minVideoBytes       = 64 * 1024
	maxVideoBytes       = 8 * 1024 * 1024
)

// writeSilentWAV writes a valid PCM WAV file containing silence of the given
// duration. Durations above maxWAVSeconds are clamped.
func writeSilentWAV(path string, seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	if seconds > maxWAVSeconds {
		seconds = maxWAVSeconds
	}
	samples := int(seconds * wavSampleRate)
	dataLen := samples * 2 // 16-bit mono

	buf := make([]byte, 44+dataLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], wavSampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], wavSampleRate*2)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	return os.WriteFile(path, buf, 0644)
}

// writeThumbnail writes a portrait JPEG placeholder. The fill colour varies
// with the segment index.
func writeThumbnail(path string, index int) error {
	img := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	shade := uint8(40 + (index*37)%160)
	fill := color.RGBA{R: shade, G: shade, B: uint8(90 + (index*53)%120), A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 80}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x20, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'i', 's', 'o', '2',
	'a', 'v', 'c', '1', 'm', 'p', '4', '1',
}

// writeVideoStub writes an MP4-shaped placeholder whose size scales with the
// narration duration, capped at maxVideoBytes.
func writeVideoStub(path string, seconds float64) error {
	payload := int(seconds * videoBytesPerSecond)
	if payload < minVideoBytes {
		payload = minVideoBytes
	}
	if payload > maxVideoBytes {
		payload = maxVideoBytes
	}

	var buf bytes.Buffer
	buf.Grow(len(mp4Header) + 8 + payload)
	buf.Write(mp4Header)

	var boxSize [4]byte
	binary.BigEndian.PutUint32(boxSize[:], uint32(8+payload))
	buf.Write(boxSize[:])
	buf.WriteString("mdat")

	chunk := make([]byte, 256)
	for i := range chunk {
		chunk[i] = byte(i)
	}
	for written := 0; written < payload; written += len(chunk) {
		n := len(chunk)
		if payload-written < n {
			n = payload - written
		}
		buf.Write(chunk[:n])
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
