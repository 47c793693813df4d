package openinghours

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes exactly the fields Equal compares, so equal ranges
// always share a fingerprint. Distinct ranges may collide.
func (r *WeekDayRange) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	buf[0] = byte(r.startDay)
	buf[1] = byte(r.endDay)
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(r.nths)))
	_, _ = d.Write(buf[:])
	for _, n := range r.nths {
		binary.LittleEndian.PutUint32(buf[:4], uint32(int32(n.Start)))
		binary.LittleEndian.PutUint32(buf[4:], uint32(int32(n.End)))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
