package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pierrec/lz4/v4"
	"google.golang.org/protobuf/proto"
	"lukechampine.com/blake3"
)

const (
	formatJSON  = "json"
	formatProto = "proto"
)

// maxCommandBytes caps an inbound command frame, before and after lz4.
const maxCommandBytes = 16 << 10

var errFrameTooLarge = errors.New("frame too large")

var bufferPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// Struct fields are a map; deterministic output keeps digests stable.
var protoOpts = proto.MarshalOptions{Deterministic: true}

func normalizeFormat(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), formatProto) {
		return formatProto
	}
	return formatJSON
}

func compressLZ4(src []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)
	zw := lz4.NewWriter(buf)
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("lz4 write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// decompressLZ4 inflates src, refusing output longer than limit bytes.
func decompressLZ4(src []byte, limit int64) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)
	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(buf, io.LimitReader(zr, limit+1)); err != nil {
		return nil, fmt.Errorf("lz4 read: %w", err)
	}
	if int64(buf.Len()) > limit {
		return nil, fmt.Errorf("lz4 read: %w", errFrameTooLarge)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func frameDigest(data []byte) [32]byte {
	return blake3.Sum256(data)
}

// frame is one encoded state push.
type frame struct {
	msgType int
	data    []byte
	digest  [32]byte // of the uncompressed payload
}

type frameEncoder struct {
	format   string
	compress bool
}

// encodeState renders a state push as a JSON text frame or a protobuf binary
// frame, lz4-compressed into a binary frame when asked.
func (e frameEncoder) encodeState(s stateDTO) (frame, error) {
	var (
		data    []byte
		msgType int
		err     error
	)
	switch e.format {
	case formatProto:
		data, err = protoOpts.Marshal(stateToProto(s))
		msgType = websocket.BinaryMessage
	default:
		data, err = json.Marshal(outboundMessage{Type: "state", Payload: s})
		msgType = websocket.TextMessage
	}
	if err != nil {
		return frame{}, fmt.Errorf("encode state: %w", err)
	}
	f := frame{msgType: msgType, data: data, digest: frameDigest(data)}
	if e.compress {
		if f.data, err = compressLZ4(data); err != nil {
			return frame{}, err
		}
		f.msgType = websocket.BinaryMessage
	}
	return f, nil
}

// decodeCommand parses a client command frame. Binary frames carry the same
// JSON envelope compressed with lz4.
func decodeCommand(msgType int, data []byte) (inboundMessage, error) {
	var msg inboundMessage
	switch msgType {
	case websocket.TextMessage:
	case websocket.BinaryMessage:
		raw, err := decompressLZ4(data, maxCommandBytes)
		if err != nil {
			return msg, err
		}
		data = raw
	default:
		return msg, fmt.Errorf("unsupported frame type %d", msgType)
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("invalid command: %w", err)
	}
	return msg, nil
}
