package donations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/imrishuroy/donation-checkout/internal/aws"
)

var (
	// ErrNotFound is returned when no donation exists for the given id.
	ErrNotFound = errors.New("donation not found")
	// ErrAlreadySettled is returned when a settlement targets a record that
	// already left the initiated state.
	ErrAlreadySettled = errors.New("donation already settled")
	// ErrOrderMismatch is returned when the caller's order id does not match the record.
	ErrOrderMismatch = errors.New("order id does not match donation")
	// ErrDuplicateID is returned when the generated id is already taken.
	ErrDuplicateID = errors.New("donation id already exists")
	// ErrInvalidSettlement is returned for settlements with a non-terminal status.
	ErrInvalidSettlement = errors.New("settlement status must be success or failure")
)

// Store encapsulates operations on the donations table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	newID     func() string
}

// NewStore creates a new donations Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// Create assigns an id and timestamps, forces the initiated status and writes
// the record. The stored donation is returned.
func (s *Store) Create(ctx context.Context, d Donation) (Donation, error) {
	if d.OrderID == "" {
		return Donation{}, errors.New("create donation: order id is required")
	}
	now := s.nowFunc().UTC()
	d.ID = s.newID()
	d.Kind = Kind
	d.Status = StatusInitiated
	d.PaymentID = ""
	d.RRNNumber = ""
	d.CreatedAt = now
	d.CreatedSeq = now.UnixNano()
	d.UpdatedAt = now
	if d.Currency == "" {
		d.Currency = Currency
	}

	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return Donation{}, fmt.Errorf("marshal donation: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(id)"),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return Donation{}, ErrDuplicateID
		}
		return Donation{}, fmt.Errorf("put item: %w", err)
	}
	return d, nil
}

// Get fetches a donation by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, id string) (*Donation, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            key(id),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var d Donation
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, fmt.Errorf("unmarshal donation: %w", err)
	}
	return &d, nil
}

// Settle merges a terminal outcome into an initiated donation. Only the
// status, updated_at and the non-empty settlement fields are written; the
// update is conditional on the record still being initiated for orderID.
func (s *Store) Settle(ctx context.Context, id, orderID string, st Settlement) error {
	if st.Status != StatusSuccess && st.Status != StatusFailure {
		return ErrInvalidSettlement
	}
	now := s.nowFunc().UTC()

	sets := []string{"#s = :new", "updated_at = :ua"}
	values := map[string]types.AttributeValue{
		":new":       &types.AttributeValueMemberS{Value: st.Status},
		":ua":        &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		":initiated": &types.AttributeValueMemberS{Value: StatusInitiated},
		":oid":       &types.AttributeValueMemberS{Value: orderID},
	}
	if st.PaymentID != "" {
		sets = append(sets, "payment_id = :pid")
		values[":pid"] = &types.AttributeValueMemberS{Value: st.PaymentID}
	}
	if st.RRNNumber != "" {
		sets = append(sets, "rrn_number = :rrn")
		values[":rrn"] = &types.AttributeValueMemberS{Value: st.RRNNumber}
	}

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &s.tableName,
		Key:                       key(id),
		UpdateExpression:          awsString("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       awsString("#s = :initiated AND order_id = :oid"),
		ExpressionAttributeNames:  map[string]string{"#s": "status"},
		ExpressionAttributeValues: values,
	})
	if err == nil {
		return nil
	}

	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return fmt.Errorf("update item: %w", err)
	}
	// work out which part of the condition failed
	cur, getErr := s.Get(ctx, id)
	switch {
	case getErr != nil:
		return fmt.Errorf("settle %s: %w", id, getErr)
	case cur == nil:
		return ErrNotFound
	case cur.OrderID != orderID:
		return ErrOrderMismatch
	default:
		return ErrAlreadySettled
	}
}

// List returns every donation ordered by creation time, newest first.
func (s *Store) List(ctx context.Context) ([]Donation, error) {
	var (
		all       []Donation
		startKey  map[string]types.AttributeValue
		indexName = CreatedIndex
	)
	for {
		out, err := s.client.Query(ctx, &dyn.QueryInput{
			TableName:                 &s.tableName,
			IndexName:                 &indexName,
			KeyConditionExpression:    awsString("#k = :kind"),
			ExpressionAttributeNames:  map[string]string{"#k": "kind"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":kind": &types.AttributeValueMemberS{Value: Kind}},
			ScanIndexForward:          awsBool(false),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query donations: %w", err)
		}
		var page []Donation
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal donations: %w", err)
		}
		all = append(all, page...)

		startKey = out.LastEvaluatedKey
		if len(startKey) == 0 {
			break
		}
	}
	return all, nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func awsString(s string) *string { return &s }

func awsBool(b bool) *bool { return &b }
