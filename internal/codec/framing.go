/*
 * This file is part of paperback.
 *
 * paperback turns a file into a stack of printable, QR-coded, erasure-coded
 * pages, and turns scans of those pages back into the original file.
 *
 * paperback is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published
 * by the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package codec

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/ccoveille/go-safecast"
	"github.com/mr-tron/base58"
)

// headerSize is magic(4) + format_version(1) + document_id(8) + kind(1).
const headerSize = 4 + 1 + 8 + 1

// metadataBodyMinSize is k(4) + r(4) + shard_size(4) + blob_len(8) + descriptor length prefix(2).
const metadataBodyMinSize = 4 + 4 + 4 + 8 + 2

// shardBodyMinSize is shard_index(4); the rest of the body is the shard itself.
const shardBodyMinSize = 4

// Marshal renders a payload to its tightly-packed binary frame, including
// the trailing truncated-SHA-512 checksum, but before base58 expansion.
// Marshal is deterministic: identical payloads produce identical bytes.
func Marshal(p *Payload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(p.FormatVersion)
	var docID [8]byte
	binary.BigEndian.PutUint64(docID[:], p.DocumentID)
	buf.Write(docID[:])
	buf.WriteByte(byte(p.Kind))

	switch p.Kind {
	case PayloadKindMetadata:
		if p.Metadata == nil {
			return nil, fmt.Errorf("paperback: metadata payload missing body")
		}
		if err := writeMetadataBody(&buf, p.Metadata); err != nil {
			return nil, err
		}
	case PayloadKindShard:
		if p.Shard == nil {
			return nil, fmt.Errorf("paperback: shard payload missing body")
		}
		writeShardBody(&buf, p.Shard)
	default:
		return nil, ErrBadKind
	}

	sum := sha512.Sum512(buf.Bytes())
	buf.Write(sum[:ChecksumSize])
	return buf.Bytes(), nil
}

func writeMetadataBody(buf *bytes.Buffer, m *Metadata) error {
	var head [20]byte
	binary.BigEndian.PutUint32(head[0:4], m.K)
	binary.BigEndian.PutUint32(head[4:8], m.R)
	binary.BigEndian.PutUint32(head[8:12], m.ShardSize)
	binary.BigEndian.PutUint64(head[12:20], m.BlobLen)
	buf.Write(head[:])

	descLen, err := safecast.ToUint16(len(m.Descriptor))
	if err != nil {
		return fmt.Errorf("paperback: descriptor too long: %w", err)
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], descLen)
	buf.Write(lenBuf[:])
	buf.WriteString(m.Descriptor)
	return nil
}

func writeShardBody(buf *bytes.Buffer, s *ShardPayload) {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], s.Index)
	buf.Write(idx[:])
	buf.Write(s.Shard)
}

// Unmarshal parses one payload's binary frame, verifying magic, version,
// and checksum. Every failure here is one of the framing error kinds in
// errors.go and is meant to be dropped silently by a decode scan.
func Unmarshal(data []byte) (*Payload, error) {
	if len(data) < 4 {
		return nil, ErrTruncated
	}
	if string(data[0:4]) != Magic {
		return nil, ErrBadMagic
	}
	if len(data) < headerSize {
		return nil, ErrTruncated
	}

	version := data[4]
	if version != FormatVersion1 {
		return nil, ErrUnknownVersion
	}

	docID := binary.BigEndian.Uint64(data[5:13])
	kind := PayloadKind(data[13])
	if kind != PayloadKindMetadata && kind != PayloadKindShard {
		return nil, ErrBadKind
	}

	if len(data) < headerSize+ChecksumSize {
		return nil, ErrTruncated
	}

	prefix := data[:len(data)-ChecksumSize]
	trailer := data[len(data)-ChecksumSize:]
	sum := sha512.Sum512(prefix)
	if !bytes.Equal(sum[:ChecksumSize], trailer) {
		return nil, ErrChecksumMismatch
	}

	body := data[headerSize : len(data)-ChecksumSize]

	p := &Payload{
		FormatVersion: version,
		DocumentID:    docID,
		Kind:          kind,
	}

	switch kind {
	case PayloadKindMetadata:
		m, err := parseMetadataBody(body)
		if err != nil {
			return nil, err
		}
		p.Metadata = m
	case PayloadKindShard:
		s, err := parseShardBody(body)
		if err != nil {
			return nil, err
		}
		p.Shard = s
	}

	return p, nil
}

func parseMetadataBody(body []byte) (*Metadata, error) {
	if len(body) < metadataBodyMinSize {
		return nil, ErrTruncated
	}

	m := &Metadata{
		K:         binary.BigEndian.Uint32(body[0:4]),
		R:         binary.BigEndian.Uint32(body[4:8]),
		ShardSize: binary.BigEndian.Uint32(body[8:12]),
		BlobLen:   binary.BigEndian.Uint64(body[12:20]),
	}

	descLen := binary.BigEndian.Uint16(body[20:22])
	rest := body[22:]
	if len(rest) != int(descLen) {
		return nil, ErrTruncated
	}
	m.Descriptor = string(rest)
	return m, nil
}

func parseShardBody(body []byte) (*ShardPayload, error) {
	if len(body) < shardBodyMinSize {
		return nil, ErrTruncated
	}
	return &ShardPayload{
		Index: binary.BigEndian.Uint32(body[0:4]),
		Shard: bytes.Clone(body[shardBodyMinSize:]),
	}, nil
}

// EncodeText renders a payload to the base58 string handed to the QrEncoder.
func EncodeText(p *Payload) (string, error) {
	raw, err := Marshal(p)
	if err != nil {
		return "", err
	}
	return base58.Encode(raw), nil
}

// DecodeText reverses EncodeText: base58-decodes, then parses the frame.
func DecodeText(text string) (*Payload, error) {
	raw, err := base58.Decode(text)
	if err != nil {
		return nil, ErrBadBase58
	}
	return Unmarshal(raw)
}
