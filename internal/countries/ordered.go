package countries

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Entry is one key of an upstream JSON object.
type Entry[V any] struct {
	Key   string
	Value V
}

// Ordered is a JSON object decoded with its keys in document order.
// RestCountries lists a country's languages and currencies in the order
// the answer text shows them.
type Ordered[V any] []Entry[V]

func (o *Ordered[V]) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*o = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("expected JSON object, got %s", res.Type)
	}

	out := Ordered[V]{}
	var err error
	res.ForEach(func(k, v gjson.Result) bool {
		var val V
		if err = json.Unmarshal([]byte(v.Raw), &val); err != nil {
			err = fmt.Errorf("decoding %q: %w", k.String(), err)
			return false
		}
		out = append(out, Entry[V]{Key: k.String(), Value: val})
		return true
	})
	if err != nil {
		return err
	}
	*o = out
	return nil
}

func (o Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
