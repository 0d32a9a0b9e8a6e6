package dispatch

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Shard maps a subscription identity onto one of n workers.
//
// The topic is hashed first and the partition and subscriber key are folded in
// using the previous hash as seed, so no intermediate string is built.
func Shard(topic string, partitionID int32, subscriberKey int64, n int) int {
	if n <= 1 {
		return 0
	}

	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(partitionID))   //nolint:gosec
	binary.LittleEndian.PutUint64(buf[4:], uint64(subscriberKey)) //nolint:gosec

	h := xxh3.HashString(topic)
	h = xxh3.HashSeed(buf[:], h)

	return int(h % uint64(n)) //nolint:gosec
}
