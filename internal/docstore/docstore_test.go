package docstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/pulsecare/clinic-platform/pkg/logging"
)

type record struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	CreatedAt string `dynamodbav:"createdAt"`
}

func TestCreateDocument_SetsIDAndGuardsOverwrite(t *testing.T) {
	mock := &mockDynamo{}
	client := New(mock, nil, logging.Default())

	err := client.CreateDocument(context.Background(), "appointments", "appt-1", record{Name: "checkup"})
	if err != nil {
		t.Fatalf("CreateDocument returned error: %v", err)
	}
	if mock.putInput == nil {
		t.Fatal("expected PutItem to be called")
	}
	id, ok := mock.putInput.Item["id"].(*types.AttributeValueMemberS)
	if !ok || id.Value != "appt-1" {
		t.Fatalf("expected id attribute to be forced, got %v", mock.putInput.Item["id"])
	}
	if expr := mock.putInput.ConditionExpression; expr == nil || *expr != "attribute_not_exists(id)" {
		t.Fatalf("expected overwrite guard, got %v", expr)
	}
}

func TestCreateDocument_EmptyID(t *testing.T) {
	client := New(&mockDynamo{}, nil, logging.Default())
	if err := client.CreateDocument(context.Background(), "appointments", "", record{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	mock := &mockDynamo{getOutput: &dynamodb.GetItemOutput{}}
	client := New(mock, nil, logging.Default())

	var out record
	err := client.GetDocument(context.Background(), "appointments", "missing", &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDocument_Success(t *testing.T) {
	mock := &mockDynamo{
		getOutput: &dynamodb.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"id":   &types.AttributeValueMemberS{Value: "appt-2"},
				"name": &types.AttributeValueMemberS{Value: "follow-up"},
			},
		},
	}
	client := New(mock, nil, logging.Default())

	var out record
	if err := client.GetDocument(context.Background(), "appointments", "appt-2", &out); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if out.ID != "appt-2" || out.Name != "follow-up" {
		t.Fatalf("unexpected record: %#v", out)
	}
}

func TestUpdateDocument_AliasesFieldNames(t *testing.T) {
	mock := &mockDynamo{}
	client := New(mock, nil, logging.Default())

	err := client.UpdateDocument(context.Background(), "appointments", "appt-3", map[string]any{
		"status":             "cancelled",
		"cancellationReason": "Cancelled by user",
	})
	if err != nil {
		t.Fatalf("UpdateDocument returned error: %v", err)
	}
	if len(mock.updateInputs) != 1 {
		t.Fatalf("expected 1 update call, got %d", len(mock.updateInputs))
	}
	update := mock.updateInputs[0]
	if expr := update.ConditionExpression; expr == nil || *expr != "attribute_exists(id)" {
		t.Fatalf("expected existence guard, got %v", expr)
	}
	// Fields are applied in sorted order, so the aliases are deterministic.
	if update.ExpressionAttributeNames["#f0"] != "cancellationReason" || update.ExpressionAttributeNames["#f1"] != "status" {
		t.Fatalf("expected aliased attribute names, got %v", update.ExpressionAttributeNames)
	}
	if !strings.HasPrefix(*update.UpdateExpression, "SET ") {
		t.Fatalf("unexpected update expression %q", *update.UpdateExpression)
	}
}

func TestUpdateDocument_MissingDocument(t *testing.T) {
	mock := &mockDynamo{updateErr: &types.ConditionalCheckFailedException{}}
	client := New(mock, nil, logging.Default())

	err := client.UpdateDocument(context.Background(), "appointments", "gone", map[string]any{"status": "cancelled"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListDocuments_FiltersSortsAndLimits(t *testing.T) {
	mock := &mockDynamo{
		scanOutputs: []*dynamodb.ScanOutput{
			{
				Items: []map[string]types.AttributeValue{
					item("a", "2024-01-01T00:00:00Z"),
					item("b", "2024-03-01T00:00:00Z"),
				},
				LastEvaluatedKey: map[string]types.AttributeValue{
					"id": &types.AttributeValueMemberS{Value: "b"},
				},
			},
			{
				Items: []map[string]types.AttributeValue{
					item("c", "2024-02-01T00:00:00Z"),
				},
			},
		},
	}
	client := New(mock, nil, logging.Default())

	q := NewQuery().Equal("doctorId", "doc-1").OrderDescBy("createdAt").Limit(2)
	var out []record
	if err := client.ListDocuments(context.Background(), "appointments", q, &out); err != nil {
		t.Fatalf("ListDocuments returned error: %v", err)
	}

	if len(mock.scanInputs) != 2 {
		t.Fatalf("expected paginated scan, got %d calls", len(mock.scanInputs))
	}
	if mock.scanInputs[0].FilterExpression == nil || *mock.scanInputs[0].FilterExpression != "#n0 = :v0" {
		t.Fatalf("unexpected filter expression %v", mock.scanInputs[0].FilterExpression)
	}
	if len(out) != 2 {
		t.Fatalf("expected limit applied, got %d items", len(out))
	}
	if out[0].ID != "b" || out[1].ID != "c" {
		t.Fatalf("expected newest-first ordering, got %v", out)
	}
}

func TestListDocuments_InFilter(t *testing.T) {
	mock := &mockDynamo{scanOutputs: []*dynamodb.ScanOutput{{}}}
	client := New(mock, nil, logging.Default())

	q := NewQuery().In("userId", "u1", "u2")
	var out []record
	if err := client.ListDocuments(context.Background(), "patients", q, &out); err != nil {
		t.Fatalf("ListDocuments returned error: %v", err)
	}
	expr := *mock.scanInputs[0].FilterExpression
	if expr != "#n0 IN (:v0_0, :v0_1)" {
		t.Fatalf("unexpected IN expression %q", expr)
	}
}

func TestListDocuments_ScanError(t *testing.T) {
	mock := &mockDynamo{scanErr: errors.New("throttled")}
	client := New(mock, nil, logging.Default())

	var out []record
	err := client.ListDocuments(context.Background(), "appointments", nil, &out)
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func item(id, createdAt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":        &types.AttributeValueMemberS{Value: id},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
}

type mockDynamo struct {
	putInput     *dynamodb.PutItemInput
	putErr       error
	getOutput    *dynamodb.GetItemOutput
	getErr       error
	updateInputs []*dynamodb.UpdateItemInput
	updateErr    error
	scanInputs   []*dynamodb.ScanInput
	scanOutputs  []*dynamodb.ScanOutput
	scanErr      error
}

func (m *mockDynamo) PutItem(ctx context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInput = input
	return &dynamodb.PutItemOutput{}, m.putErr
}

func (m *mockDynamo) GetItem(ctx context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getOutput == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return m.getOutput, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, input *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.updateInputs = append(m.updateInputs, input)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, input *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	m.scanInputs = append(m.scanInputs, input)
	call := len(m.scanInputs) - 1
	if call < len(m.scanOutputs) {
		return m.scanOutputs[call], nil
	}
	return &dynamodb.ScanOutput{}, nil
}
