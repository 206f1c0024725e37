package gcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coastwise/gcpkit/pkg/gcs"
)

func TestURIConversions(t *testing.T) {
	assert.Equal(t, "gs://example_bucket_339", gcs.IDToURI("example_bucket_339"))
	assert.Equal(t, "example_bucket_339", gcs.URIToID("gs://example_bucket_339"))
}

func TestURLConversions(t *testing.T) {
	url := gcs.IDToURL("example_bucket_448")
	assert.Equal(t, "https://console.cloud.google.com/storage/browser/example_bucket_448", url)
	assert.Equal(t, "example_bucket_448", gcs.URLToID(url))
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512.00 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.00 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gcs.HumanSize(tt.size))
	}
}
