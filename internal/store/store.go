package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// Item 是文档存储中的一条记录，属性名到属性值的映射
type Item = map[string]*dynamodb.AttributeValue

// ErrConditionFailed 表示条件表达式未通过（例如条件写入遇到已存在的键）
var ErrConditionFailed = errors.New("store: condition failed")

// Cond 描述写操作的条件表达式：列出的属性必须存在/必须不存在
type Cond struct {
	Exists    []string
	NotExists []string
}

// UpdateInput 描述一次单条记录的更新
// Sets 按字段赋值；Adds 使用存储端的原子加法原语，
// 并发调用之间不会丢失更新
type UpdateInput struct {
	Sets map[string]interface{}
	Adds map[string]int64
	Cond *Cond
}

// Page 描述分页参数。StartToken 是不透明的继续令牌，
// 由存储返回、调用方原样传回，适配层之外不做解释
type Page struct {
	Limit      int64
	StartToken string
	Backward   bool // true 表示按范围键倒序（新→旧）
}

// Result 是一页查询结果
type Result struct {
	Items     []Item
	NextToken string
}

// Store 是统一的文档存储适配接口。
// 存储只保证单条记录的原子性，没有跨记录事务
type Store interface {
	// Get 按主键读取一条记录，记录不存在时返回 (nil, nil)
	Get(ctx context.Context, table string, key Item) (Item, error)
	// Put 写入一条记录，条件不满足时返回 ErrConditionFailed
	Put(ctx context.Context, table string, item Item, cond *Cond) error
	// Update 原子更新一条记录并返回更新后的完整记录
	Update(ctx context.Context, table string, key Item, in UpdateInput) (Item, error)
	// Delete 按主键删除一条记录
	Delete(ctx context.Context, table string, key Item, cond *Cond) error
	// Query 按键属性等值条件查询（可走二级索引）
	Query(ctx context.Context, table, index, keyAttr string, keyValue interface{}, page Page) (Result, error)
	// Count 统计满足键条件的记录数，翻完所有页
	Count(ctx context.Context, table, index, keyAttr string, keyValue interface{}) (int64, error)
	// Scan 全表扫描，filters 为属性等值过滤条件
	Scan(ctx context.Context, table string, filters map[string]interface{}, page Page) (Result, error)
}

// S 构造字符串属性值
func S(v string) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{S: aws.String(v)}
}

// Key 构造单属性主键
func Key(attr, value string) Item {
	return Item{attr: S(value)}
}

// CompositeKey 构造双属性组合主键
func CompositeKey(attr1, value1, attr2, value2 string) Item {
	return Item{attr1: S(value1), attr2: S(value2)}
}
