package pkguid

import (
	"crypto/rand"
	"encoding/binary"
)

// RandomNodeID returns a random Snowflake node id that fits in bits bits.
func RandomNodeID(bits uint8) (int64, error) {
	var nodeID uint64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return int64(nodeID & (1<<bits - 1)), nil
}
