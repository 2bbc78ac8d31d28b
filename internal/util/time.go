package util

import "time"

// NowISO 返回当前 UTC 时间的 RFC3339 字符串，
// 文档中的时间戳统一使用该格式存储
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
