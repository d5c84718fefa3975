// Package s3 stores run reports in Amazon S3 and indexes them in an optional
// DynamoDB run ledger.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "filltest/")
//	ledger := s3.NewLedger(dynamodb.NewFromConfig(cfg), "filltest-runs")
//
// # Features
//
//   - Uploads through the S3 transfer manager with CRC32C checksums
//   - Automatic pagination for listing
//   - Configurable prefix for sharing a bucket
//   - Conditional ledger writes, so a run ID is recorded at most once
package s3
