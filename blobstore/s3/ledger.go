package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/filltest/blobstore"
)

// ErrDuplicateRun is returned when the ledger already holds the run ID.
var ErrDuplicateRun = errors.New("run already recorded")

// Ledger records stored reports in a DynamoDB table, one item per run.
//
// Table schema:
//   - Partition key: run_id (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name filltest-runs \
//	  --attribute-definitions AttributeName=run_id,AttributeType=S \
//	  --key-schema AttributeName=run_id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type Ledger struct {
	client DDBClient
	table  string
}

var _ blobstore.Ledger = (*Ledger)(nil)

// NewLedger creates a ledger on table.
func NewLedger(client DDBClient, table string) *Ledger {
	return &Ledger{client: client, table: table}
}

// Record writes the entry. A run ID is written at most once.
func (l *Ledger) Record(ctx context.Context, e blobstore.LedgerEntry) error {
	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(l.table),
		Item:                marshalEntry(e),
		ConditionExpression: aws.String("attribute_not_exists(run_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("%w: %s", ErrDuplicateRun, e.RunID)
		}
		return fmt.Errorf("record run %s: %w", e.RunID, err)
	}
	return nil
}

// Get returns the entry of a run.
func (l *Ledger) Get(ctx context.Context, runID string) (blobstore.LedgerEntry, error) {
	out, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.table),
		Key: map[string]types.AttributeValue{
			"run_id": &types.AttributeValueMemberS{Value: runID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return blobstore.LedgerEntry{}, err
	}
	if len(out.Item) == 0 {
		return blobstore.LedgerEntry{}, blobstore.ErrNotFound
	}
	return unmarshalEntry(out.Item)
}

func marshalEntry(e blobstore.LedgerEntry) map[string]types.AttributeValue {
	str := func(s string) types.AttributeValue { return &types.AttributeValueMemberS{Value: s} }
	num := func(n int64) types.AttributeValue {
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
	}

	return map[string]types.AttributeValue{
		"run_id":        str(e.RunID),
		"report_key":    str(e.Key),
		"host":          str(e.Host),
		"dir":           str(e.Dir),
		"started":       str(e.Started.UTC().Format(time.RFC3339Nano)),
		"finished":      str(e.Finished.UTC().Format(time.RFC3339Nano)),
		"seed":          &types.AttributeValueMemberN{Value: strconv.FormatUint(e.Seed, 10)},
		"bytes_written": num(e.BytesWritten),
		"bytes_read":    num(e.BytesRead),
		"faults":        num(e.Faults),
	}
}

func unmarshalEntry(item map[string]types.AttributeValue) (blobstore.LedgerEntry, error) {
	var (
		e        blobstore.LedgerEntry
		firstErr error
	)
	str := func(name string) string {
		if v, ok := item[name].(*types.AttributeValueMemberS); ok {
			return v.Value
		}
		return ""
	}
	num := func(name string) int64 {
		v, ok := item[name].(*types.AttributeValueMemberN)
		if !ok {
			return 0
		}
		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("attribute %s: %w", name, err)
		}
		return n
	}
	ts := func(name string) time.Time {
		s := str(name)
		if s == "" {
			return time.Time{}
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("attribute %s: %w", name, err)
		}
		return t
	}

	e.RunID = str("run_id")
	e.Key = str("report_key")
	e.Host = str("host")
	e.Dir = str("dir")
	e.Started = ts("started")
	e.Finished = ts("finished")
	if v, ok := item["seed"].(*types.AttributeValueMemberN); ok {
		seed, err := strconv.ParseUint(v.Value, 10, 64)
		if err != nil {
			return e, fmt.Errorf("attribute seed: %w", err)
		}
		e.Seed = seed
	}
	e.BytesWritten = num("bytes_written")
	e.BytesRead = num("bytes_read")
	e.Faults = num("faults")
	return e, firstErr
}
