package snapshot

import "errors"

// ErrSnapshotTooLarge is returned when a container's decompressed size
// exceeds its configured bound.
var ErrSnapshotTooLarge = errors.New("snapshot: decompressed size exceeds bound")

// ErrTruncated is returned by Decode when the input ends before a
// length-prefixed field it declares is fully read.
var ErrTruncated = errors.New("snapshot: truncated snapshot encoding")
