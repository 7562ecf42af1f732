package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// JSONContentSubtype selects the JSON codec for CreditRiskService calls
// ("application/grpc+json").
const JSONContentSubtype = "json"

func init() {
	encoding.RegisterCodec(runMessageCodec{})
}

// runMessageCodec encodes the CreditRiskService request and response
// structs, such as BuildProxyTargetRequest and SegmentationRunMsg, as JSON
// using their snake_case field tags.
type runMessageCodec struct{}

func (runMessageCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (runMessageCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (runMessageCodec) Name() string {
	return JSONContentSubtype
}
