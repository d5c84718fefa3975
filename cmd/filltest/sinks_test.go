package main

import (
	"context"
	"testing"

	"github.com/hupe1980/filltest/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		raw  string
		want target
	}{
		{"reports", target{scheme: "file", path: "reports"}},
		{"file:///var/lib/filltest", target{scheme: "file", path: "/var/lib/filltest"}},
		{"file://reports/sd", target{scheme: "file", path: "reports/sd"}},
		{"s3://qa-bucket/cards/batch-7", target{scheme: "s3", bucket: "qa-bucket", path: "cards/batch-7"}},
		{"s3://qa-bucket", target{scheme: "s3", bucket: "qa-bucket"}},
		{"minio://minio.lab:9000/runs/usb", target{scheme: "minio", host: "minio.lab:9000", bucket: "runs", path: "usb", secure: true}},
		{"minio+http://localhost:9000/runs", target{scheme: "minio", host: "localhost:9000", bucket: "runs"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseTarget(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTarget_Invalid(t *testing.T) {
	for _, raw := range []string{"s3:///prefix", "minio://host", "gs://bucket", "file://"} {
		_, err := parseTarget(raw)
		assert.Error(t, err, raw)
	}
}

func TestOpenStores_Local(t *testing.T) {
	dir := t.TempDir()
	stores, ledger, err := openStores(context.Background(), []string{dir, "file://" + dir}, "")
	require.NoError(t, err)
	assert.Nil(t, ledger)
	require.Len(t, stores, 2)
	assert.IsType(t, &blobstore.LocalStore{}, stores[0])
}

func TestOpenStores_LedgerNeedsS3(t *testing.T) {
	_, _, err := openStores(context.Background(), []string{t.TempDir()}, "runs")
	assert.Error(t, err)
}
