package memo

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/auction-house-client/pkg/solana"
)

func TestInstruction(t *testing.T) {
	i, err := Instruction("hello, world!")
	require.NoError(t, err)
	assert.Equal(t, ProgramKey, i.Program)
	assert.Empty(t, i.Accounts)
	assert.Equal(t, "hello, world!", string(i.Data))

	_, err = Instruction("")
	assert.Equal(t, ErrInvalidMemo, err)

	_, err = Instruction(string([]byte{0xff, 0xfe}))
	assert.Equal(t, ErrInvalidMemo, err)
}

func TestTag(t *testing.T) {
	assert.Equal(t, "auction-house:place_bid", Tag("auction-house", "place_bid"))
	assert.Equal(t, "auction-house:settle", Tag(" auction-house ", "settle"))
}

func TestDecompile(t *testing.T) {
	instruction, err := Instruction("hello, world")
	require.NoError(t, err)

	tx := solana.NewTransaction(
		make([]byte, 32),
		instruction,
	)

	i, err := DecompileMemo(tx.Message, 0)
	assert.NoError(t, err)
	assert.Equal(t, "hello, world", string(i.Data))

	_, err = DecompileMemo(tx.Message, 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "instruction doesn't exist")

	tx.Message.Accounts[1], _, err = ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_, err = DecompileMemo(tx.Message, 0)
	assert.Error(t, err)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}
