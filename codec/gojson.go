package codec

import gojson "github.com/goccy/go-json"

// GoJSON writes compact JSON with github.com/goccy/go-json. Map keys are
// sorted, so equal reports encode to equal bytes.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

func (GoJSON) Name() string { return "go-json" }
