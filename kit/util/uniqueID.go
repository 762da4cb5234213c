package util

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	snowflakeNode     *snowflake.Node
	snowflakeNodeOnce sync.Once
)

// GetSnowflakeIDInt64 returns a process-unique id, used for request
// tracking. Short codes come from store identities, not from here.
func GetSnowflakeIDInt64() int64 {
	snowflakeNodeOnce.Do(func() {
		node, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		snowflakeNode = node
	})
	return snowflakeNode.Generate().Int64()
}
