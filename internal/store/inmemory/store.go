// Package inmemory 提供 store.Store 的进程内实现，
// 与 Document API 实现可互换，用于测试和本地运行。
// 条件表达式和原子加法的语义与真实存储保持一致。
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"blog-backend/internal/store"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

// Store 将全部记录保存在内存中，按表分桶
type Store struct {
	mu     sync.RWMutex
	keys   map[string][]string          // 表名 → 主键属性名
	tables map[string]map[string]store.Item // 表名 → 主键串 → 记录
}

var _ store.Store = (*Store)(nil)

// New 创建内存存储，keys 描述每张表的主键属性。
// 所有桶在这里一次建好，之后 bucket 只做读取，
// 持读锁的路径不会再写 tables
func New(keys map[string][]string) *Store {
	tables := make(map[string]map[string]store.Item, len(keys))
	for table := range keys {
		tables[table] = make(map[string]store.Item)
	}
	return &Store{
		keys:   keys,
		tables: tables,
	}
}

func (s *Store) bucket(table string) map[string]store.Item {
	return s.tables[table]
}

// itemKey 把记录的主键属性拼成桶内的键串
func (s *Store) itemKey(table string, item store.Item) (string, error) {
	attrs, ok := s.keys[table]
	if !ok {
		return "", fmt.Errorf("未知的表: %s", table)
	}
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		av, ok := item[attr]
		if !ok || av.S == nil {
			return "", fmt.Errorf("表 %s 缺少主键属性 %s", table, attr)
		}
		parts = append(parts, *av.S)
	}
	return strings.Join(parts, "|"), nil
}

func (s *Store) Get(_ context.Context, table string, key store.Item) (store.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, err := s.itemKey(table, key)
	if err != nil {
		return nil, err
	}
	item, ok := s.bucket(table)[k]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

func (s *Store) Put(_ context.Context, table string, item store.Item, cond *store.Cond) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.itemKey(table, item)
	if err != nil {
		return err
	}
	existing := s.bucket(table)[k]
	if err := checkCond(existing, cond); err != nil {
		return err
	}
	s.bucket(table)[k] = copyItem(item)
	return nil
}

func (s *Store) Update(_ context.Context, table string, key store.Item, in store.UpdateInput) (store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.itemKey(table, key)
	if err != nil {
		return nil, err
	}
	existing := s.bucket(table)[k]
	if err := checkCond(existing, in.Cond); err != nil {
		return nil, err
	}

	// 无条件更新在记录缺失时会创建记录，与真实存储一致
	var item store.Item
	if existing != nil {
		item = copyItem(existing)
	} else {
		item = copyItem(key)
	}

	for field, value := range in.Sets {
		av, err := dynamodbattribute.Marshal(value)
		if err != nil {
			return nil, err
		}
		item[field] = av
	}

	for field, delta := range in.Adds {
		var current int64
		if av, ok := item[field]; ok && av.N != nil {
			current, err = strconv.ParseInt(*av.N, 10, 64)
			if err != nil {
				return nil, err
			}
		}
		item[field] = &dynamodb.AttributeValue{
			N: aws.String(strconv.FormatInt(current+delta, 10)),
		}
	}

	s.bucket(table)[k] = item
	return copyItem(item), nil
}

func (s *Store) Delete(_ context.Context, table string, key store.Item, cond *store.Cond) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, err := s.itemKey(table, key)
	if err != nil {
		return err
	}
	existing := s.bucket(table)[k]
	if err := checkCond(existing, cond); err != nil {
		return err
	}
	delete(s.bucket(table), k)
	return nil
}

func (s *Store) Query(_ context.Context, table, _ string, keyAttr string, keyValue interface{}, page store.Page) (store.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want, err := dynamodbattribute.Marshal(keyValue)
	if err != nil {
		return store.Result{}, err
	}

	var matched []store.Item
	for _, item := range s.bucket(table) {
		if equalAV(item[keyAttr], want) {
			matched = append(matched, copyItem(item))
		}
	}
	return paginate(matched, page)
}

func (s *Store) Count(ctx context.Context, table, index, keyAttr string, keyValue interface{}) (int64, error) {
	result, err := s.Query(ctx, table, index, keyAttr, keyValue, store.Page{})
	if err != nil {
		return 0, err
	}
	return int64(len(result.Items)), nil
}

func (s *Store) Scan(_ context.Context, table string, filters map[string]interface{}, page store.Page) (store.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wantByField := make(map[string]*dynamodb.AttributeValue, len(filters))
	for field, value := range filters {
		av, err := dynamodbattribute.Marshal(value)
		if err != nil {
			return store.Result{}, err
		}
		wantByField[field] = av
	}

	var matched []store.Item
	for _, item := range s.bucket(table) {
		ok := true
		for field, want := range wantByField {
			if !equalAV(item[field], want) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, copyItem(item))
		}
	}
	return paginate(matched, page)
}

// paginate 对匹配结果排序并按偏移量分页，
// 继续令牌对调用方同样不透明
func paginate(items []store.Item, page store.Page) (store.Result, error) {
	sort.Slice(items, func(i, j int) bool {
		return sortKey(items[i]) < sortKey(items[j])
	})
	if page.Backward {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}

	offset := 0
	if page.StartToken != "" {
		n, err := strconv.Atoi(page.StartToken)
		if err != nil {
			return store.Result{}, fmt.Errorf("无效的分页令牌: %w", err)
		}
		offset = n
	}
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]

	next := ""
	if page.Limit > 0 && int64(len(items)) > page.Limit {
		items = items[:page.Limit]
		next = strconv.Itoa(offset + int(page.Limit))
	}
	return store.Result{Items: items, NextToken: next}, nil
}

func sortKey(item store.Item) string {
	if av, ok := item["created_at"]; ok && av.S != nil {
		return *av.S
	}
	return ""
}

// checkCond 按真实存储的语义求值条件表达式：
// 记录不存在时 attribute_exists 失败、attribute_not_exists 通过
func checkCond(existing store.Item, cond *store.Cond) error {
	if cond == nil {
		return nil
	}
	for _, attr := range cond.Exists {
		if existing == nil {
			return store.ErrConditionFailed
		}
		if _, ok := existing[attr]; !ok {
			return store.ErrConditionFailed
		}
	}
	for _, attr := range cond.NotExists {
		if existing == nil {
			continue
		}
		if _, ok := existing[attr]; ok {
			return store.ErrConditionFailed
		}
	}
	return nil
}

func equalAV(a, b *dynamodb.AttributeValue) bool {
	if a == nil || b == nil {
		return false
	}
	switch {
	case a.S != nil && b.S != nil:
		return *a.S == *b.S
	case a.N != nil && b.N != nil:
		return *a.N == *b.N
	case a.BOOL != nil && b.BOOL != nil:
		return *a.BOOL == *b.BOOL
	}
	return false
}

func copyItem(item store.Item) store.Item {
	out := make(store.Item, len(item))
	for k, v := range item {
		out[k] = copyAV(v)
	}
	return out
}

func copyAV(av *dynamodb.AttributeValue) *dynamodb.AttributeValue {
	if av == nil {
		return nil
	}
	out := &dynamodb.AttributeValue{}
	if av.S != nil {
		out.S = aws.String(*av.S)
	}
	if av.N != nil {
		out.N = aws.String(*av.N)
	}
	if av.BOOL != nil {
		out.BOOL = aws.Bool(*av.BOOL)
	}
	if av.NULL != nil {
		out.NULL = aws.Bool(*av.NULL)
	}
	if av.M != nil {
		out.M = copyItem(av.M)
	}
	if av.L != nil {
		out.L = make([]*dynamodb.AttributeValue, len(av.L))
		for i, v := range av.L {
			out.L[i] = copyAV(v)
		}
	}
	if av.SS != nil {
		out.SS = make([]*string, len(av.SS))
		for i, v := range av.SS {
			out.SS[i] = aws.String(*v)
		}
	}
	return out
}
