package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
)

func (c *Client) Get(ctx context.Context, table string, key Item) (Item, error) {
	out, err := c.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName(table)),
		Key:       key,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

func (c *Client) Put(ctx context.Context, table string, item Item, cond *Cond) error {
	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName(table)),
		Item:      item,
	}

	if cond != nil {
		names := map[string]*string{}
		input.ConditionExpression = aws.String(buildCondExpression(cond, names))
		input.ExpressionAttributeNames = names
	}

	_, err := c.db.PutItemWithContext(ctx, input)
	return translateConditionErr(err)
}

func (c *Client) Update(ctx context.Context, table string, key Item, in UpdateInput) (Item, error) {
	names := map[string]*string{}
	values := Item{}
	var parts []string

	if len(in.Sets) > 0 {
		var sets []string
		i := 0
		for field, value := range in.Sets {
			av, err := dynamodbattribute.Marshal(value)
			if err != nil {
				return nil, err
			}
			namePh := fmt.Sprintf("#s%d", i)
			valuePh := fmt.Sprintf(":s%d", i)
			names[namePh] = aws.String(field)
			values[valuePh] = av
			sets = append(sets, fmt.Sprintf("%s = %s", namePh, valuePh))
			i++
		}
		parts = append(parts, "SET "+strings.Join(sets, ", "))
	}

	if len(in.Adds) > 0 {
		var adds []string
		i := 0
		for field, delta := range in.Adds {
			namePh := fmt.Sprintf("#a%d", i)
			valuePh := fmt.Sprintf(":a%d", i)
			names[namePh] = aws.String(field)
			values[valuePh] = &dynamodb.AttributeValue{N: aws.String(fmt.Sprintf("%d", delta))}
			adds = append(adds, fmt.Sprintf("%s %s", namePh, valuePh))
			i++
		}
		parts = append(parts, "ADD "+strings.Join(adds, ", "))
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(c.tableName(table)),
		Key:                       key,
		UpdateExpression:          aws.String(strings.Join(parts, " ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              aws.String(dynamodb.ReturnValueAllNew),
	}

	if in.Cond != nil {
		input.ConditionExpression = aws.String(buildCondExpression(in.Cond, names))
	}

	out, err := c.db.UpdateItemWithContext(ctx, input)
	if err != nil {
		return nil, translateConditionErr(err)
	}
	return out.Attributes, nil
}

func (c *Client) Delete(ctx context.Context, table string, key Item, cond *Cond) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName(table)),
		Key:       key,
	}

	if cond != nil {
		names := map[string]*string{}
		input.ConditionExpression = aws.String(buildCondExpression(cond, names))
		input.ExpressionAttributeNames = names
	}

	_, err := c.db.DeleteItemWithContext(ctx, input)
	return translateConditionErr(err)
}

func (c *Client) Query(ctx context.Context, table, index, keyAttr string, keyValue interface{}, page Page) (Result, error) {
	av, err := dynamodbattribute.Marshal(keyValue)
	if err != nil {
		return Result{}, err
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(c.tableName(table)),
		KeyConditionExpression:    aws.String("#k = :k"),
		ExpressionAttributeNames:  map[string]*string{"#k": aws.String(keyAttr)},
		ExpressionAttributeValues: Item{":k": av},
		ScanIndexForward:          aws.Bool(!page.Backward),
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}
	if page.Limit > 0 {
		input.Limit = aws.Int64(page.Limit)
	}
	if page.StartToken != "" {
		startKey, err := decodePageToken(page.StartToken)
		if err != nil {
			return Result{}, err
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := c.db.QueryWithContext(ctx, input)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Items:     out.Items,
		NextToken: encodePageToken(out.LastEvaluatedKey),
	}, nil
}

func (c *Client) Count(ctx context.Context, table, index, keyAttr string, keyValue interface{}) (int64, error) {
	av, err := dynamodbattribute.Marshal(keyValue)
	if err != nil {
		return 0, err
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(c.tableName(table)),
		KeyConditionExpression:    aws.String("#k = :k"),
		ExpressionAttributeNames:  map[string]*string{"#k": aws.String(keyAttr)},
		ExpressionAttributeValues: Item{":k": av},
		Select:                    aws.String(dynamodb.SelectCount),
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}

	var total int64
	for {
		out, err := c.db.QueryWithContext(ctx, input)
		if err != nil {
			return 0, err
		}
		total += aws.Int64Value(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return total, nil
}

func (c *Client) Scan(ctx context.Context, table string, filters map[string]interface{}, page Page) (Result, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(c.tableName(table)),
	}

	if len(filters) > 0 {
		names := map[string]*string{}
		values := Item{}
		var conds []string
		i := 0
		for field, value := range filters {
			av, err := dynamodbattribute.Marshal(value)
			if err != nil {
				return Result{}, err
			}
			namePh := fmt.Sprintf("#f%d", i)
			valuePh := fmt.Sprintf(":f%d", i)
			names[namePh] = aws.String(field)
			values[valuePh] = av
			conds = append(conds, fmt.Sprintf("%s = %s", namePh, valuePh))
			i++
		}
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	if page.Limit > 0 {
		input.Limit = aws.Int64(page.Limit)
	}
	if page.StartToken != "" {
		startKey, err := decodePageToken(page.StartToken)
		if err != nil {
			return Result{}, err
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := c.db.ScanWithContext(ctx, input)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Items:     out.Items,
		NextToken: encodePageToken(out.LastEvaluatedKey),
	}, nil
}

// buildCondExpression 渲染条件表达式，占位符写入共享的 names 映射
func buildCondExpression(cond *Cond, names map[string]*string) string {
	var parts []string
	i := 0
	for _, attr := range cond.Exists {
		ph := fmt.Sprintf("#c%d", i)
		names[ph] = aws.String(attr)
		parts = append(parts, fmt.Sprintf("attribute_exists(%s)", ph))
		i++
	}
	for _, attr := range cond.NotExists {
		ph := fmt.Sprintf("#c%d", i)
		names[ph] = aws.String(attr)
		parts = append(parts, fmt.Sprintf("attribute_not_exists(%s)", ph))
		i++
	}
	return strings.Join(parts, " AND ")
}

// translateConditionErr 把存储端的条件检查失败映射为 ErrConditionFailed
func translateConditionErr(err error) error {
	if err == nil {
		return nil
	}
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		return ErrConditionFailed
	}
	return err
}
