package processor

import (
	"github.com/golang/snappy"
)

// Version is the tag in the first field of a payload. It is the only key
// used to pick the decoding strategy; shipped versions are never removed
// because issued links must keep working.
type Version string

const (
	// VersionLegacy stores the JSON document uncompressed
	VersionLegacy Version = "v1"
	// VersionCompressed stores the Snappy-compressed JSON document
	VersionCompressed Version = "v2"

	CurrentVersion = VersionCompressed
)

type versionCodec struct {
	pack   func([]byte) []byte
	unpack func([]byte) ([]byte, error)
}

var versionCodecs = map[Version]versionCodec{
	VersionLegacy: {
		pack:   func(b []byte) []byte { return b },
		unpack: func(b []byte) ([]byte, error) { return b, nil },
	},
	VersionCompressed: {
		pack:   func(b []byte) []byte { return snappy.Encode(nil, b) },
		unpack: func(b []byte) ([]byte, error) { return snappy.Decode(nil, b) },
	},
}

// KnownVersions lists the versions the decoder accepts
func KnownVersions() []Version {
	return []Version{VersionLegacy, VersionCompressed}
}
