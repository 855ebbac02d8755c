package docstore

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type conditionOp string

const (
	opEqual        conditionOp = "="
	opGreaterEqual conditionOp = ">="
	opLessEqual    conditionOp = "<="
	opIn           conditionOp = "IN"
)

type condition struct {
	field  string
	op     conditionOp
	value  any
	values []any
}

// Query accumulates filters for ListDocuments. Ordering and limits are
// applied client-side after the scan completes.
type Query struct {
	conditions     []condition
	orderDescField string
	limit          int
}

func NewQuery() *Query {
	return &Query{}
}

// Equal filters documents where field equals value.
func (q *Query) Equal(field string, value any) *Query {
	q.conditions = append(q.conditions, condition{field: field, op: opEqual, value: value})
	return q
}

// GreaterThanEqual filters documents where field >= value.
func (q *Query) GreaterThanEqual(field string, value any) *Query {
	q.conditions = append(q.conditions, condition{field: field, op: opGreaterEqual, value: value})
	return q
}

// LessThanEqual filters documents where field <= value.
func (q *Query) LessThanEqual(field string, value any) *Query {
	q.conditions = append(q.conditions, condition{field: field, op: opLessEqual, value: value})
	return q
}

// In filters documents where field matches any of the given values.
func (q *Query) In(field string, values ...any) *Query {
	q.conditions = append(q.conditions, condition{field: field, op: opIn, values: values})
	return q
}

// OrderDescBy sorts results by the given attribute, newest first.
func (q *Query) OrderDescBy(field string) *Query {
	q.orderDescField = field
	return q
}

// Limit caps the number of returned documents.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) build() (string, map[string]string, map[string]types.AttributeValue, error) {
	if len(q.conditions) == 0 {
		return "", nil, nil, nil
	}

	names := make(map[string]string)
	values := make(map[string]types.AttributeValue)
	expr := ""
	for i, cond := range q.conditions {
		if cond.field == "" {
			return "", nil, nil, errors.New("docstore: filter field required")
		}
		namePh := fmt.Sprintf("#n%d", i)
		names[namePh] = cond.field
		if i > 0 {
			expr += " AND "
		}

		if cond.op == opIn {
			if len(cond.values) == 0 {
				return "", nil, nil, fmt.Errorf("docstore: IN filter on %s needs values", cond.field)
			}
			expr += namePh + " IN ("
			for j, v := range cond.values {
				attr, err := attributevalue.Marshal(v)
				if err != nil {
					return "", nil, nil, fmt.Errorf("docstore: marshal filter value: %w", err)
				}
				valuePh := fmt.Sprintf(":v%d_%d", i, j)
				values[valuePh] = attr
				if j > 0 {
					expr += ", "
				}
				expr += valuePh
			}
			expr += ")"
			continue
		}

		attr, err := attributevalue.Marshal(cond.value)
		if err != nil {
			return "", nil, nil, fmt.Errorf("docstore: marshal filter value: %w", err)
		}
		valuePh := fmt.Sprintf(":v%d", i)
		values[valuePh] = attr
		expr += fmt.Sprintf("%s %s %s", namePh, cond.op, valuePh)
	}
	return expr, names, values, nil
}
