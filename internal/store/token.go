package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// 继续令牌是存储返回的 LastEvaluatedKey 的 base64(JSON) 编码，
// 对调用方完全不透明，下一次请求时原样传回

func encodePageToken(key Item) string {
	if len(key) == 0 {
		return ""
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodePageToken(token string) (Item, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("无效的分页令牌: %w", err)
	}
	var key Item
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("无效的分页令牌: %w", err)
	}
	return key, nil
}
