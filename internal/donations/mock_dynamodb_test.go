package donations

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strconv"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the donations table.
// It understands exactly the expressions the Store issues.
type mockDynamo struct {
	mu          sync.Mutex
	items       map[string]map[string]types.AttributeValue
	pageSize    int
	putCalls    int
	updateCalls int
	queryCalls  int
	failUpdate  error
	failQuery   error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func num(av types.AttributeValue) int64 {
	if n, ok := av.(*types.AttributeValueMemberN); ok {
		v, _ := strconv.ParseInt(n.Value, 10, 64)
		return v
	}
	return 0
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	id := str(params.Item["id"])
	if id == "" {
		return nil, errors.New("no primary key in put item")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(id)" {
		if _, exists := m.items[id]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[id] = maps.Clone(params.Item)
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[str(params.Key["id"])]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: maps.Clone(item)}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.failUpdate != nil {
		return nil, m.failUpdate
	}
	vals := params.ExpressionAttributeValues
	item, ok := m.items[str(params.Key["id"])]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :initiated AND order_id = :oid" {
		if str(item["status"]) != str(vals[":initiated"]) || str(item["order_id"]) != str(vals[":oid"]) {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	item = maps.Clone(item)
	item["status"] = vals[":new"]
	item["updated_at"] = vals[":ua"]
	if v, ok := vals[":pid"]; ok {
		item["payment_id"] = v
	}
	if v, ok := vals[":rrn"]; ok {
		item["rrn_number"] = v
	}
	m.items[str(params.Key["id"])] = item
	return &dyn.UpdateItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	if m.failQuery != nil {
		return nil, m.failQuery
	}
	kind := str(params.ExpressionAttributeValues[":kind"])
	var rows []map[string]types.AttributeValue
	for _, it := range m.items {
		if str(it["kind"]) == kind {
			rows = append(rows, maps.Clone(it))
		}
	}
	desc := params.ScanIndexForward != nil && !*params.ScanIndexForward
	sort.Slice(rows, func(i, j int) bool {
		if desc {
			return num(rows[i]["created_seq"]) > num(rows[j]["created_seq"])
		}
		return num(rows[i]["created_seq"]) < num(rows[j]["created_seq"])
	})

	if start := str(params.ExclusiveStartKey["id"]); start != "" {
		for i, r := range rows {
			if str(r["id"]) == start {
				rows = rows[i+1:]
				break
			}
		}
	}
	out := &dyn.QueryOutput{Items: rows}
	if m.pageSize > 0 && len(rows) > m.pageSize {
		out.Items = rows[:m.pageSize]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"id": rows[m.pageSize-1]["id"]}
	}
	return out, nil
}
