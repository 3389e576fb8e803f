package tachyon

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts application payloads to and from the bytes carried in a single datagram.
//
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type msgpackCodec struct{}

// NewMsgpackCodec returns the default Codec, encoding payloads as MessagePack.
//
func NewMsgpackCodec() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "msgpack encode")
	}
	return data, nil
}

func (msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "msgpack decode")
	}
	return nil
}

func Encode[T any](codec Codec, v T) ([]byte, error) {
	return codec.Marshal(v)
}

func Decode[T any](codec Codec, data []byte) (T, error) {
	var v T
	if err := codec.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
