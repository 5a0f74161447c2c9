package cluster

import (
	"fmt"

	"github.com/kevwan/radixcluster/crc16"
)

func newValidationError(first, last int) error {
	return fmt.Errorf("cluster: invalid slot range [%d, %d]: endpoints must be in [0, %d) with last >= first", first, last, crc16.NumSlots)
}
