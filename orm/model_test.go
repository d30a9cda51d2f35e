package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Counter is a minimal model used to exercise buckets.
type Counter struct {
	Count int64  `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
	Label string `protobuf:"bytes,2,opt,name=label,proto3" json:"label,omitempty"`
}

func (m *Counter) Reset()         { *m = Counter{} }
func (m *Counter) String() string { return proto.CompactTextString(m) }
func (*Counter) ProtoMessage()    {}

func (m *Counter) Validate() error {
	if m.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}
