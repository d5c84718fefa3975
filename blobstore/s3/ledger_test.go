package s3

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/filltest/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testEntry() blobstore.LedgerEntry {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return blobstore.LedgerEntry{
		RunID:        "4b1f6a0e-run",
		Key:          "reports/4b1f6a0e-run.json.zst",
		Host:         "bench-01",
		Dir:          "/mnt/usb",
		Started:      started,
		Finished:     started.Add(90 * time.Minute),
		Seed:         1434038592,
		BytesWritten: 64 << 30,
		BytesRead:    64 << 30,
		Faults:       3,
	}
}

func TestLedger_Record(t *testing.T) {
	client := new(MockDDBClient)
	ledger := NewLedger(client, "runs")
	e := testEntry()

	client.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		id, ok := in.Item["run_id"].(*types.AttributeValueMemberS)
		faults, ok2 := in.Item["faults"].(*types.AttributeValueMemberN)
		return ok && ok2 &&
			*in.TableName == "runs" &&
			*in.ConditionExpression == "attribute_not_exists(run_id)" &&
			id.Value == e.RunID &&
			faults.Value == "3"
	})).Return(&dynamodb.PutItemOutput{}, nil).Once()

	require.NoError(t, ledger.Record(context.Background(), e))
	client.AssertExpectations(t)
}

func TestLedger_RecordDuplicate(t *testing.T) {
	client := new(MockDDBClient)
	ledger := NewLedger(client, "runs")

	client.On("PutItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}).Once()

	err := ledger.Record(context.Background(), testEntry())
	assert.ErrorIs(t, err, ErrDuplicateRun)
}

func TestLedger_RecordError(t *testing.T) {
	client := new(MockDDBClient)
	ledger := NewLedger(client, "runs")
	boom := errors.New("throttled")

	client.On("PutItem", mock.Anything, mock.Anything).Return(nil, boom).Once()

	err := ledger.Record(context.Background(), testEntry())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDuplicateRun)
}

func TestLedger_Get(t *testing.T) {
	client := new(MockDDBClient)
	ledger := NewLedger(client, "runs")
	e := testEntry()

	client.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		id, ok := in.Key["run_id"].(*types.AttributeValueMemberS)
		return ok && id.Value == e.RunID
	})).Return(&dynamodb.GetItemOutput{Item: marshalEntry(e)}, nil).Once()

	got, err := ledger.Get(context.Background(), e.RunID)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestLedger_GetMissing(t *testing.T) {
	client := new(MockDDBClient)
	ledger := NewLedger(client, "runs")

	client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

	_, err := ledger.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
