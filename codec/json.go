package codec

import "encoding/json"

// JSON trades size for greppable region contents. Handy when the region
// store is shared (e.g. Redis) and entries get inspected by hand.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
