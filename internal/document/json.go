package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"pathbridge/internal/types"
)

// ParseJSON decodes a JSON value into a node. Unlike unmarshaling into
// map[string]any, object key order is preserved, so a response written back
// out as YAML keeps the shape the service sent.
func ParseJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("document: decoding json: %v: %w", err, types.ErrParse)
	}
	if dec.More() {
		return nil, fmt.Errorf("document: trailing data after json value: %w", types.ErrParse)
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := Mapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				n.Pairs = append(n.Pairs, Pair{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return nil, err
			}
			return n, nil
		case '[':
			n := Sequence()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				n.Items = append(n.Items, item)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return nil, err
			}
			return n, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Scalar(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Scalar(f), nil
	case string, bool, nil:
		return Scalar(normalizeScalar(t)), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// MarshalJSON encodes the node as compact JSON, keeping mapping order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	switch n.Kind {
	case KindScalar:
		return json.Marshal(n.Value)
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, p := range n.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(p.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := p.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			val, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("document: unsupported node kind %v", n.Kind)
	}
}
