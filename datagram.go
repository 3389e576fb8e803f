package tachyon

// datagram is the single receive buffer owned by one socket. It is overwritten by every read; bytes handed to a
// handler are only valid until that handler returns.
//
type datagram struct {
	data []byte
	sz   uint32
	uz   uint32
}

func newDatagram(sz int) *datagram {
	return &datagram{
		data: make([]byte, sz),
		sz:   uint32(sz),
	}
}

func (self *datagram) bytes() []byte {
	return self.data[:self.uz]
}
