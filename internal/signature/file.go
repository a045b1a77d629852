package signature

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"io"
	"regexp"
	"strconv"
)

const (
	PNGMIMEType  = "image/png"
	PNGExtension = ".png"
)

var namePattern = regexp.MustCompile(`^[0-9]+\.png$`)

// File is a rasterized signature handed to the host after a submit.
type File struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Size returns the encoded length in bytes.
func (f File) Size() int {
	return len(f.Data)
}

// Reader opens the encoded image for reading.
func (f File) Reader() io.Reader {
	return bytes.NewReader(f.Data)
}

// ValidName reports whether name looks like a generated signature file name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// RandomName returns "<random uint32>.png".
func RandomName() string {
	var b [4]byte
	rand.Read(b[:])
	return strconv.FormatUint(uint64(binary.BigEndian.Uint32(b[:])), 10) + PNGExtension
}
