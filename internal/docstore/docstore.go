// Package docstore provides a generic document client over DynamoDB-backed
// collections. Records are marshaled with attributevalue; every collection is
// one table keyed by an "id" string attribute.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/pulsecare/clinic-platform/internal/observability/metrics"
	"github.com/pulsecare/clinic-platform/pkg/logging"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Client reads and writes documents in named collections.
type Client struct {
	client  dynamoAPI
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// New builds a client backed by the provided DynamoDB client.
func New(client dynamoAPI, m *metrics.BookingMetrics, logger *logging.Logger) *Client {
	if client == nil {
		panic("docstore: dynamodb client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{client: client, metrics: m, logger: logger}
}

// CreateDocument inserts a new document. The record's "id" attribute is
// overwritten with the given id, and inserting an existing id fails.
func (c *Client) CreateDocument(ctx context.Context, collection, id string, record any) error {
	if id == "" {
		return errors.New("docstore: document id required")
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("docstore: marshal document: %w", err)
	}
	item["id"] = &types.AttributeValueMemberS{Value: id}

	start := time.Now()
	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(collection),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	c.metrics.ObserveStoreLatency(collection, "create", time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("docstore: create document in %s: %w", collection, err)
	}
	return nil
}

// GetDocument fetches a document by id and unmarshals it into out.
func (c *Client) GetDocument(ctx context.Context, collection, id string, out any) error {
	if id == "" {
		return errors.New("docstore: document id required")
	}
	start := time.Now()
	resp, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(collection),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	c.metrics.ObserveStoreLatency(collection, "get", time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("docstore: get document from %s: %w", collection, err)
	}
	if resp.Item == nil {
		return ErrNotFound
	}
	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return fmt.Errorf("docstore: decode document from %s: %w", collection, err)
	}
	return nil
}

// UpdateDocument applies a partial update to an existing document.
func (c *Client) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return errors.New("docstore: document id required")
	}
	if len(fields) == 0 {
		return errors.New("docstore: no fields to update")
	}

	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	expr := "SET "
	i := 0
	for _, field := range sortedKeys(fields) {
		attr, err := attributevalue.Marshal(fields[field])
		if err != nil {
			return fmt.Errorf("docstore: marshal field %s: %w", field, err)
		}
		namePh := fmt.Sprintf("#f%d", i)
		valuePh := fmt.Sprintf(":v%d", i)
		names[namePh] = field
		values[valuePh] = attr
		if i > 0 {
			expr += ", "
		}
		expr += namePh + " = " + valuePh
		i++
	}

	start := time.Now()
	_, err := c.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(collection),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(id)"),
	})
	c.metrics.ObserveStoreLatency(collection, "update", time.Since(start).Seconds())
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return ErrNotFound
		}
		return fmt.Errorf("docstore: update document %s in %s: %w", id, collection, err)
	}
	return nil
}

// ListDocuments scans a collection with the given query and unmarshals the
// result into out, which must be a pointer to a slice.
func (c *Client) ListDocuments(ctx context.Context, collection string, q *Query, out any) error {
	if q == nil {
		q = NewQuery()
	}
	filter, names, values, err := q.build()
	if err != nil {
		return fmt.Errorf("docstore: build query for %s: %w", collection, err)
	}

	input := &dynamodb.ScanInput{TableName: aws.String(collection)}
	if filter != "" {
		input.FilterExpression = aws.String(filter)
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	start := time.Now()
	var items []map[string]types.AttributeValue
	for {
		resp, err := c.client.Scan(ctx, input)
		if err != nil {
			c.metrics.ObserveStoreLatency(collection, "list", time.Since(start).Seconds())
			return fmt.Errorf("docstore: list documents in %s: %w", collection, err)
		}
		items = append(items, resp.Items...)
		if resp.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = resp.LastEvaluatedKey
	}
	c.metrics.ObserveStoreLatency(collection, "list", time.Since(start).Seconds())

	if q.orderDescField != "" {
		sortItemsDesc(items, q.orderDescField)
	}
	if q.limit > 0 && len(items) > q.limit {
		items = items[:q.limit]
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("docstore: decode documents from %s: %w", collection, err)
	}
	return nil
}

// sortItemsDesc orders raw items by a string or numeric attribute, newest
// first. Missing attributes sort last.
func sortItemsDesc(items []map[string]types.AttributeValue, field string) {
	sort.SliceStable(items, func(i, j int) bool {
		return compareAttr(items[i][field], items[j][field]) > 0
	})
}

func compareAttr(a, b types.AttributeValue) int {
	av, aok := attrScalar(a)
	bv, bok := attrScalar(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	an, aerr := strconv.ParseFloat(av, 64)
	bn, berr := strconv.ParseFloat(bv, 64)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

func attrScalar(v types.AttributeValue) (string, bool) {
	switch t := v.(type) {
	case *types.AttributeValueMemberS:
		return t.Value, true
	case *types.AttributeValueMemberN:
		return t.Value, true
	default:
		return "", false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
