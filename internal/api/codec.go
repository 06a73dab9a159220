// Package api holds the request and response messages of the splitsheets
// RPC services and the codec they travel with.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONCodec is the connect codec for the plain Go messages in this package.
// It replaces connect's default "json" codec, which only handles protobuf
// messages.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. Unknown fields are rejected so typos in
// requests fail loudly.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
