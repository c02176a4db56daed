package rewrite

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

func TestReplaceInFile(t *testing.T) {
	t.Parallel()

	dir := fs.NewDir(t, "targeted",
		fs.WithFile(".env.local", "NEXT_PUBLIC_USDC="+oldAddr+"\nOTHER="+oldAddr+"\n", fs.WithMode(0o600)),
		fs.WithFile(".env", "RPC_URL=https://evm-t3.cronos.org\n"),
	)

	tests := []struct {
		name string
		path string
		want Outcome
	}{
		{name: "updated", path: dir.Join(".env.local"), want: OutcomeUpdated},
		{name: "value missing", path: dir.Join(".env"), want: OutcomeValueMissing},
		{name: "file missing", path: dir.Join("CroGas", ".env"), want: OutcomeFileMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ReplaceInFile(testContext(t), tt.path, oldAddr, newAddr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceInFile_Content(t *testing.T) {
	t.Parallel()

	dir := fs.NewDir(t, "targeted",
		fs.WithFile(".env.local", "A="+oldAddr+"\nB="+oldAddr+"\n", fs.WithMode(0o600)),
	)

	got, err := ReplaceInFile(testContext(t), dir.Join(".env.local"), oldAddr, newAddr)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, got)
	assert.Equal(t, "A="+newAddr+"\nB="+newAddr+"\n", readFile(t, dir.Join(".env.local")))

	info, err := os.Stat(dir.Join(".env.local"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestReplaceInFile_Validation(t *testing.T) {
	t.Parallel()

	_, err := ReplaceInFile(testContext(t), "unused", newAddr, newAddr)
	var identical *IdenticalValuesError
	require.ErrorAs(t, err, &identical)
	assert.Equal(t, newAddr, identical.Value)
}

func TestReplaceInFiles(t *testing.T) {
	t.Parallel()

	dir := fs.NewDir(t, "targeted",
		fs.WithDir("0rca_chat", fs.WithFile(".env.local", "USDC="+oldAddr+"\n")),
		fs.WithDir("CroGas", fs.WithFile(".env", "USDC="+newAddr+"\n")),
	)

	got, err := ReplaceInFiles(testContext(t), []string{
		dir.Join("0rca_chat", ".env.local"),
		dir.Join("CroGas", ".env"),
		dir.Join("missing", ".env"),
	}, oldAddr, newAddr)
	require.NoError(t, err)

	assert.Equal(t, []FileOutcome{
		{Path: dir.Join("0rca_chat", ".env.local"), Outcome: OutcomeUpdated},
		{Path: dir.Join("CroGas", ".env"), Outcome: OutcomeValueMissing},
		{Path: dir.Join("missing", ".env"), Outcome: OutcomeFileMissing},
	}, got)
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "updated", OutcomeUpdated.String())
	assert.Equal(t, "file not found", OutcomeFileMissing.String())
	assert.Equal(t, "value not found", OutcomeValueMissing.String())
	assert.Equal(t, "Outcome(9)", Outcome(9).String())
}
