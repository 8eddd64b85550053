package snapshot

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecompressedSize is the default decompression bound for a
// snapshot container file.
const DefaultMaxDecompressedSize = 256 << 20 // 256 MiB

// Container reads a zstd-compressed snapshot file with a bound on the
// decompressed size, so an untrusted or corrupt container cannot be used to
// exhaust memory via decompression-bomb style input.
type Container struct {
	// MaxDecompressedSize bounds the number of bytes ReadAll will accept
	// out of the decompressed stream. Zero means DefaultMaxDecompressedSize.
	MaxDecompressedSize int64
}

// ReadAll decompresses r fully into memory, bounded by
// MaxDecompressedSize. The bound is enforced as the stream is read, not
// after the fact, so a hostile compressed input cannot balloon memory
// before being rejected.
func (c Container) ReadAll(r io.Reader) ([]byte, error) {
	limit := c.MaxDecompressedSize
	if limit <= 0 {
		limit = DefaultMaxDecompressedSize
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	limited := io.LimitReader(dec, limit+1)
	out, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, ErrSnapshotTooLarge
	}
	return out, nil
}

// WriteAll compresses data with zstd into w, for producing a container file
// the off-chain builder can distribute.
func (c Container) WriteAll(w io.Writer, data []byte) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
