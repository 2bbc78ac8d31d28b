package interfaces

import "context"

// CounterEngine 接口定义了计数器引擎对外的操作
type CounterEngine interface {
	// Apply 对帖子的计数器字段原子地加 delta，返回新值
	Apply(ctx context.Context, postID, field string, delta int64) (int64, error)
	// Set 把计数器重置为给定值，仅供对账任务使用
	Set(ctx context.Context, postID, field string, value int64) error
}
