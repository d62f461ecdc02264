// Package wire frames region entries. The envelope carries a presence flag
// so a cached "not found" (negative entry) is representable and
// distinguishable from both a region miss and an empty value, and a magic
// prefix so foreign or truncated bytes are detected instead of fed to the
// codec.
package wire

import (
	"bytes"
	"errors"
)

const (
	version byte = 1

	flagAbsent  byte = 0
	flagPresent byte = 1

	headerLen = 6 // magic(4) + version + flag
)

var (
	ErrCorrupt = errors.New("metacache: corrupt entry")
	magic4     = [...]byte{'M', 'D', 'C', 'H'}
)

// EncodeEntry frames a codec payload. When present is false the payload is
// ignored and a negative entry is produced.
func EncodeEntry(present bool, payload []byte) []byte {
	if !present {
		payload = nil
	}
	out := make([]byte, 0, headerLen+len(payload))
	out = append(out, magic4[:]...)
	out = append(out, version)
	if present {
		out = append(out, flagPresent)
	} else {
		out = append(out, flagAbsent)
	}
	return append(out, payload...)
}

// DecodeEntry validates the envelope and splits it into presence and
// payload. The payload aliases b; callers must not retain it past decode.
func DecodeEntry(b []byte) (present bool, payload []byte, err error) {
	if len(b) < headerLen {
		return false, nil, ErrCorrupt
	}
	if !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return false, nil, ErrCorrupt
	}
	switch b[5] {
	case flagAbsent:
		if len(b) != headerLen {
			return false, nil, ErrCorrupt
		}
		return false, nil, nil
	case flagPresent:
		return true, b[headerLen:], nil
	default:
		return false, nil, ErrCorrupt
	}
}
