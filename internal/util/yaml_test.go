package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKeys(t *testing.T) {
	doc := []byte(`
services:
  zeta:
    image: z
  alpha:
    image: a
  mid:
    image: m
`)
	root, err := ParseDocument(doc)
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     []string
		expected []string
	}{
		{"services keep declaration order", []string{"services"}, []string{"zeta", "alpha", "mid"}},
		{"top level", nil, []string{"services"}},
		{"missing path", []string{"volumes"}, nil},
		{"scalar is not a mapping", []string{"services", "zeta", "image"}, nil},
		{"path through scalar", []string{"services", "zeta", "image", "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Keys(Lookup(root, tt.path...)))
		})
	}
}

func TestLookupScalar(t *testing.T) {
	root, err := ParseDocument([]byte("services:\n  web:\n    image: nginx\n"))
	require.NoError(t, err)

	node := Lookup(root, "services", "web", "image")
	require.NotNil(t, node)
	assert.Equal(t, "nginx", node.Value)
}

func TestParseDocumentInvalidYAML(t *testing.T) {
	_, err := ParseDocument([]byte("services: [unclosed"))
	assert.ErrorContains(t, err, "yaml parse")
}

func TestParseDocumentEmpty(t *testing.T) {
	root, err := ParseDocument([]byte(""))
	require.NoError(t, err)
	assert.Nil(t, root)
	assert.Nil(t, Keys(Lookup(root, "services")))
}
