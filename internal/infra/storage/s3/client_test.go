package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	assert.Equal(t, "minio:9000", parseEndpoint("http://minio:9000"))
	assert.Equal(t, "minio:9000", parseEndpoint("minio:9000"))
}

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient(Config{Bucket: "fixtures"}, nil)
	require.Error(t, err)
	_, err = NewClient(Config{Endpoint: "localhost:9000"}, nil)
	require.Error(t, err)

	c, err := NewClient(Config{Endpoint: "http://localhost:9000", Bucket: "fixtures"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixtures", c.bucket)
}
