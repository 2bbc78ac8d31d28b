package store

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// Options 描述文档存储客户端的连接参数
type Options struct {
	Endpoint        string // Document API 端点
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	TablePrefix     string
	MaxRetries      int
}

// Client 是基于 DynamoDB 兼容 Document API 的 Store 实现。
// 在进程启动时显式构造一次，通过构造函数注入各仓库，
// 不使用包级单例
type Client struct {
	db     *dynamodb.DynamoDB
	prefix string
}

var _ Store = (*Client)(nil)

// NewClient 创建文档存储客户端
// 重试由传输层负责：有界重试加标准退避，核心逻辑不感知
func NewClient(opts Options) (*Client, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}

	cfg := aws.NewConfig().
		WithEndpoint(opts.Endpoint).
		WithRegion(opts.Region).
		WithMaxRetries(opts.MaxRetries)

	if opts.AccessKeyID != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(
			opts.AccessKeyID, opts.SecretAccessKey, ""))
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		db:     dynamodb.New(sess),
		prefix: opts.TablePrefix,
	}, nil
}

// tableName 把逻辑表名映射为带前缀的物理表名
func (c *Client) tableName(table string) string {
	return c.prefix + table
}
