package provision

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteEnvFile(dir, map[string]string{"KEY": "v"}))

	raw, err := os.ReadFile(EnvFilePath(dir))
	require.NoError(t, err)
	assert.Equal(t, "KEY=v\n", string(raw))

	vars, err := ReadEnvFile(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"KEY": "v"}, vars)
}

func TestWriteEnvFile(t *testing.T) {
	tests := []struct {
		name     string
		vars     map[string]string
		expected string
	}{
		{
			name:     "keys upper-cased",
			vars:     map[string]string{"claim_token": "abc"},
			expected: "CLAIM_TOKEN=abc\n",
		},
		{
			name:     "empty values omitted",
			vars:     map[string]string{"KEEP": "1", "DROP": ""},
			expected: "KEEP=1\n",
		},
		{
			name:     "sorted by key",
			vars:     map[string]string{"tz": "UTC", "api_key": "k", "PUID": "1000"},
			expected: "API_KEY=k\nPUID=1000\nTZ=UTC\n",
		},
		{
			name:     "value with equals kept",
			vars:     map[string]string{"token": "a=b"},
			expected: "TOKEN=a=b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, WriteEnvFile(dir, tt.vars))
			raw, err := os.ReadFile(EnvFilePath(dir))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(raw))
		})
	}
}

func TestEnvFileRoundTripSpecialValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"dollar and comment", "pa$word #1"},
		{"braced variable", "${HOME}x"},
		{"double dollar", "a$$b"},
		{"surrounding spaces", "  padded  "},
		{"hash without space", "abc#def"},
		{"single quotes", "it's"},
		{"double quotes", `say "hi"`},
		{"backslashes", `C:\path\n`},
		{"trailing backslash", `ends\`},
		{"newline", "line1\nline2"},
		{"tab", "a\tb"},
		{"leading quote", `'quoted'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, WriteEnvFile(dir, map[string]string{"secret": tt.value}))

			vars, err := ReadEnvFile(dir)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"SECRET": tt.value}, vars)
		})
	}
}

func TestWriteEnvFileQuotesSpecialValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteEnvFile(dir, map[string]string{"password": "pa$word #1"}))

	raw, err := os.ReadFile(EnvFilePath(dir))
	require.NoError(t, err)
	assert.Equal(t, "PASSWORD=\"pa\\$word #1\"\n", string(raw))
}

func TestWriteEnvFileKeyCollision(t *testing.T) {
	dir := t.TempDir()
	err := WriteEnvFile(dir, map[string]string{"token": "a", "TOKEN": "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"TOKEN" and "token"`)
	assert.NoFileExists(t, EnvFilePath(dir))

	require.NoError(t, WriteEnvFile(dir, map[string]string{"token": "a", "TOKEN": ""}))
	vars, err := ReadEnvFile(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"TOKEN": "a"}, vars)
}

func TestWriteEnvFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteEnvFile(dir, map[string]string{"OLD": "1"}))
	require.NoError(t, WriteEnvFile(dir, map[string]string{"NEW": "2"}))

	vars, err := ReadEnvFile(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"NEW": "2"}, vars)
}

func TestReadEnvFileMissing(t *testing.T) {
	vars, err := ReadEnvFile(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestRemoveEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteEnvFile(dir, map[string]string{"A": "1"}))

	require.NoError(t, RemoveEnvFile(dir))
	assert.NoFileExists(t, EnvFilePath(dir))

	assert.NoError(t, RemoveEnvFile(dir))
}
