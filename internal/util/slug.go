package util

import (
	"regexp"
	"strings"
)

var (
	slugInvalid  = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[_\s-]+`)
)

// Slugify 从标题生成 slug：转小写，去掉非法字符，
// 连续的空白、下划线和连字符折叠为单个连字符，去掉首尾连字符。
// 结果只包含小写字母、数字和连字符，不保证全局唯一。
func Slugify(text string) string {
	text = strings.ToLower(text)
	text = slugInvalid.ReplaceAllString(text, "")
	text = slugCollapse.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}
