package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/hupe1980/filltest/blobstore"
	"github.com/hupe1980/filltest/blobstore/minio"
	"github.com/hupe1980/filltest/blobstore/s3"
)

// target is a parsed --report location.
type target struct {
	scheme string // file, s3, minio
	host   string // minio endpoint
	bucket string
	path   string // local directory or key prefix
	secure bool
}

// parseTarget accepts file://dir, a bare directory, s3://bucket/prefix,
// minio://host/bucket/prefix (TLS) and minio+http://host/bucket/prefix.
func parseTarget(raw string) (target, error) {
	if !strings.Contains(raw, "://") {
		return target{scheme: "file", path: raw}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return target{}, fmt.Errorf("report location %q: %w", raw, err)
	}

	rest := strings.Trim(u.Path, "/")
	switch u.Scheme {
	case "file":
		p := u.Host + u.Path
		if p == "" {
			return target{}, fmt.Errorf("report location %q: empty path", raw)
		}
		return target{scheme: "file", path: p}, nil
	case "s3":
		if u.Host == "" {
			return target{}, fmt.Errorf("report location %q: missing bucket", raw)
		}
		return target{scheme: "s3", bucket: u.Host, path: rest}, nil
	case "minio", "minio+http":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if u.Host == "" || bucket == "" {
			return target{}, fmt.Errorf("report location %q: want minio://host/bucket[/prefix]", raw)
		}
		return target{scheme: "minio", host: u.Host, bucket: bucket, path: prefix, secure: u.Scheme == "minio"}, nil
	default:
		return target{}, fmt.Errorf("report location %q: unsupported scheme %q", raw, u.Scheme)
	}
}

// openStores connects to every report location. The AWS configuration is
// loaded once, on the first s3 location, and reused for the ledger.
func openStores(ctx context.Context, raws []string, ledgerTable string) ([]blobstore.Store, blobstore.Ledger, error) {
	var (
		stores []blobstore.Store
		awsCfg *aws.Config
	)
	loadAWS := func() (aws.Config, error) {
		if awsCfg == nil {
			cfg, err := s3.LoadConfig(ctx)
			if err != nil {
				return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
			}
			awsCfg = &cfg
		}
		return *awsCfg, nil
	}

	for _, raw := range raws {
		t, err := parseTarget(raw)
		if err != nil {
			return nil, nil, err
		}
		switch t.scheme {
		case "file":
			stores = append(stores, blobstore.NewLocalStore(t.path))
		case "s3":
			cfg, err := loadAWS()
			if err != nil {
				return nil, nil, err
			}
			stores = append(stores, s3.New(cfg, t.bucket, t.path))
		case "minio":
			st, err := minio.NewFromEnv(t.host, t.bucket, t.path, t.secure)
			if err != nil {
				return nil, nil, fmt.Errorf("connect to %s: %w", t.host, err)
			}
			stores = append(stores, st)
		}
	}

	if ledgerTable == "" {
		return stores, nil, nil
	}
	if awsCfg == nil {
		return nil, nil, fmt.Errorf("--ledger-table needs an s3:// report location")
	}
	return stores, s3.NewLedgerFromConfig(*awsCfg, ledgerTable), nil
}
