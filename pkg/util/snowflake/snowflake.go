package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	machine  int64 = 1
)

// Init fixes the machine id for this process. Must be unique per
// server process when deployed horizontally (0-1023).
func Init(machineID int64) {
	if machineID < 0 || machineID > 1023 {
		zap.L().Warn("invalid snowflake machine id, using 1", zap.Int64("machineID", machineID))
		machineID = 1
	}
	machine = machineID
}

func get() *snowflake.Node {
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(machine)
		if err != nil {
			zap.L().Fatal("snowflake node init failed", zap.Error(err))
		}
	})
	return node
}

// GenerateID returns a new snowflake id as int64.
func GenerateID() int64 {
	return get().Generate().Int64()
}
