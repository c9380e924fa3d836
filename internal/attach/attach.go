// Package attach reads a local file into a sendable attachment.
//
// The size limit is enforced from the file's metadata before any byte is read,
// and again on the bytes actually read in case the file grew in between.
package attach

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"cosmic/internal/protocol/envelope"
)

// MaxBytes is the largest payload a single file send may carry.
const MaxBytes = 2 << 20

// ErrTooLarge is returned for payloads over MaxBytes.
var ErrTooLarge = errors.New("file exceeds the 2 MiB limit")

// Attachment is a file ready to be handed to the codec.
type Attachment struct {
	Name      string
	MediaType string
	Data      []byte
}

// DataURI returns the attachment as a self-describing data URI.
func (a Attachment) DataURI() string { return envelope.EncodeDataURI(a.MediaType, a.Data) }

// CheckSize returns ErrTooLarge when n exceeds MaxBytes.
func CheckSize(n int64) error {
	if n > MaxBytes {
		return fmt.Errorf("%w (%d bytes)", ErrTooLarge, n)
	}
	return nil
}

// Load reads the file at path.
func Load(path string) (Attachment, error) {
	f, err := os.Open(path)
	if err != nil {
		return Attachment{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Attachment{}, err
	}
	if st.IsDir() {
		return Attachment{}, fmt.Errorf("%s is a directory", path)
	}
	if err := CheckSize(st.Size()); err != nil {
		return Attachment{}, err
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxBytes+1))
	if err != nil {
		return Attachment{}, err
	}
	if err := CheckSize(int64(len(data))); err != nil {
		return Attachment{}, err
	}

	name := filepath.Base(path)
	return Attachment{Name: name, MediaType: DetectMediaType(name, data), Data: data}, nil
}

// DetectMediaType picks a media type from the file extension, falling back to
// content sniffing.
func DetectMediaType(name string, data []byte) string {
	if mt := mime.TypeByExtension(filepath.Ext(name)); mt != "" {
		return mt
	}
	return http.DetectContentType(data)
}
