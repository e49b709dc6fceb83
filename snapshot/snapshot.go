package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/usersearch/internal/hash"
	"github.com/hupe1980/usersearch/model"
)

// Magic identifies a snapshot blob.
const Magic = "USNP"

// Version is the envelope version written by Encode.
const Version uint8 = 1

// MaxPayloadSize bounds the decoded payload to protect against corrupt headers.
const MaxPayloadSize = 256 << 20

// fixed part: magic(4) version(1) compression(1) codec length(1)
const prefixSize = len(Magic) + 3

// trailer after the codec name: records(4) raw size(4) checksum(4) size(4)
const countsSize = 16

var (
	// ErrCorrupt is returned when a snapshot fails structural or checksum validation.
	ErrCorrupt = errors.New("snapshot: corrupt")
	// ErrUnsupported is returned for unknown versions, codecs or compressions.
	ErrUnsupported = errors.New("snapshot: unsupported")
)

// Header describes an encoded snapshot.
type Header struct {
	Version     uint8
	Codec       string
	Compression Compression
	Records     uint32
	RawSize     uint32
	Checksum    uint32
	Size        uint32
}

// Options configures Encode.
type Options struct {
	Codec       Codec
	Compression Compression
}

// DefaultOptions returns go-json + zstd.
func DefaultOptions() Options {
	return Options{
		Codec:       DefaultCodec,
		Compression: CompressionZSTD,
	}
}

// Encode serializes users into a snapshot blob.
func Encode(users []model.User, optFns ...func(o *Options)) ([]byte, Header, error) {
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = DefaultCodec
	}

	name := opts.Codec.Name()
	if len(name) == 0 || len(name) > 255 {
		return nil, Header{}, fmt.Errorf("%w: codec name %q", ErrUnsupported, name)
	}
	if users == nil {
		users = []model.User{}
	}

	payload, err := opts.Codec.Marshal(users)
	if err != nil {
		return nil, Header{}, fmt.Errorf("snapshot: marshal: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return nil, Header{}, fmt.Errorf("snapshot: payload of %d bytes exceeds limit", len(payload))
	}

	body, applied, err := compress(payload, opts.Compression)
	if err != nil {
		return nil, Header{}, err
	}

	h := Header{
		Version:     Version,
		Codec:       name,
		Compression: applied,
		Records:     uint32(len(users)),
		RawSize:     uint32(len(payload)),
		Checksum:    hash.CRC32C(body),
		Size:        uint32(len(body)),
	}

	buf := make([]byte, 0, prefixSize+len(name)+countsSize+len(body))
	buf = append(buf, Magic...)
	buf = append(buf, h.Version, byte(h.Compression), byte(len(name)))
	buf = append(buf, name...)
	buf = binary.LittleEndian.AppendUint32(buf, h.Records)
	buf = binary.LittleEndian.AppendUint32(buf, h.RawSize)
	buf = binary.LittleEndian.AppendUint32(buf, h.Checksum)
	buf = binary.LittleEndian.AppendUint32(buf, h.Size)
	buf = append(buf, body...)

	return buf, h, nil
}

// ReadHeader parses and validates the header without decoding the payload.
func ReadHeader(data []byte) (Header, error) {
	h, _, err := readHeader(data)
	return h, err
}

func readHeader(data []byte) (Header, []byte, error) {
	if len(data) < prefixSize {
		return Header{}, nil, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	if string(data[:len(Magic)]) != Magic {
		return Header{}, nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}

	h := Header{
		Version:     data[4],
		Compression: Compression(data[5]),
	}
	if h.Version != Version {
		return Header{}, nil, fmt.Errorf("%w: version %d", ErrUnsupported, h.Version)
	}

	nameLen := int(data[6])
	rest := data[prefixSize:]
	if len(rest) < nameLen+countsSize {
		return Header{}, nil, fmt.Errorf("%w: short header", ErrCorrupt)
	}
	h.Codec = string(rest[:nameLen])
	rest = rest[nameLen:]

	h.Records = binary.LittleEndian.Uint32(rest[0:])
	h.RawSize = binary.LittleEndian.Uint32(rest[4:])
	h.Checksum = binary.LittleEndian.Uint32(rest[8:])
	h.Size = binary.LittleEndian.Uint32(rest[12:])
	body := rest[countsSize:]

	if uint64(len(body)) != uint64(h.Size) {
		return Header{}, nil, fmt.Errorf("%w: body is %d bytes, header says %d", ErrCorrupt, len(body), h.Size)
	}
	if _, ok := CodecByName(h.Codec); !ok {
		return Header{}, nil, fmt.Errorf("%w: codec %q", ErrUnsupported, h.Codec)
	}
	if h.Compression > CompressionZSTD {
		return Header{}, nil, fmt.Errorf("%w: %s", ErrUnsupported, h.Compression)
	}

	return h, body, nil
}

// Decode verifies a snapshot blob and returns its users.
func Decode(data []byte) ([]model.User, Header, error) {
	h, body, err := readHeader(data)
	if err != nil {
		return nil, Header{}, err
	}
	if sum := hash.CRC32C(body); sum != h.Checksum {
		return nil, Header{}, fmt.Errorf("%w: checksum %08x, want %08x", ErrCorrupt, sum, h.Checksum)
	}

	payload, err := decompress(body, h.Compression, h.RawSize)
	if err != nil {
		return nil, Header{}, err
	}

	codec, _ := CodecByName(h.Codec)

	var users []model.User
	if err := codec.Unmarshal(payload, &users); err != nil {
		return nil, Header{}, fmt.Errorf("%w: unmarshal: %v", ErrCorrupt, err)
	}
	if uint32(len(users)) != h.Records {
		return nil, Header{}, fmt.Errorf("%w: %d records, header says %d", ErrCorrupt, len(users), h.Records)
	}
	if users == nil {
		users = []model.User{}
	}

	return users, h, nil
}

// WithCodec selects the payload codec.
func WithCodec(c Codec) func(o *Options) {
	return func(o *Options) {
		o.Codec = c
	}
}

// WithCompression selects the body compression.
func WithCompression(c Compression) func(o *Options) {
	return func(o *Options) {
		o.Compression = c
	}
}
