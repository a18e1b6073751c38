package solana

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"
)

func decodeJSON(t *testing.T, s string) interface{} {
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestParseTransactionError(t *testing.T) {
	for _, tc := range []struct {
		raw            string
		key            TransactionErrorKey
		index          int
		instructionKey InstructionErrorKey
		custom         *CustomError
	}{
		{raw: `"DuplicateSignature"`, key: TransactionErrorDuplicateSignature},
		{raw: `{"InsufficientFundsForRent":{"account_index":2}}`, key: "InsufficientFundsForRent"},
		{
			raw:            `{"InstructionError":[0,"InvalidArgument"]}`,
			key:            TransactionErrorInstructionError,
			instructionKey: InstructionErrorInvalidArgument,
		},
		{
			raw:            `{"InstructionError":[2,{"Custom":6004}]}`,
			key:            TransactionErrorInstructionError,
			index:          2,
			instructionKey: InstructionErrorCustom,
			custom:         customError(6004),
		},
		{
			raw:            `{"InstructionError":[1,{"BorshIoError":"Unknown"}]}`,
			key:            TransactionErrorInstructionError,
			index:          1,
			instructionKey: "BorshIoError",
		},
	} {
		e, err := ParseTransactionError(decodeJSON(t, tc.raw))
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.key, e.ErrorKey(), tc.raw)

		if tc.instructionKey == "" {
			assert.Nil(t, e.InstructionError(), tc.raw)
			continue
		}

		require.NotNil(t, e.InstructionError(), tc.raw)
		assert.Equal(t, tc.index, e.InstructionError().Index)
		assert.Equal(t, tc.instructionKey, e.InstructionError().ErrorKey())
		assert.Equal(t, tc.custom, e.InstructionError().CustomError())

		encoded, err := e.JSONString()
		require.NoError(t, err)
		assert.JSONEq(t, tc.raw, encoded)
	}
}

func TestParseTransactionError_Malformed(t *testing.T) {
	e, err := ParseTransactionError(nil)
	assert.NoError(t, err)
	assert.Nil(t, e)

	for _, raw := range []string{
		`{"A":1,"B":2}`,
		`{"InstructionError":[0]}`,
		`{"InstructionError":["x","InvalidArgument"]}`,
		`{"InstructionError":[0,{"A":1,"B":2}]}`,
	} {
		_, err := ParseTransactionError(decodeJSON(t, raw))
		assert.Error(t, err, raw)
	}

	_, err = ParseTransactionError(1.0)
	assert.Error(t, err)
}

func TestParseRPCError(t *testing.T) {
	e, err := ParseRPCError(&jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed",
		Data:    decodeJSON(t, `{"err":"BlockhashNotFound","logs":[]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, TransactionErrorBlockhashNotFound, e.ErrorKey())

	e, err = ParseRPCError(&jsonrpc.RPCError{Code: -32005, Data: decodeJSON(t, `{"numSlotsBehind":10}`)})
	assert.NoError(t, err)
	assert.Nil(t, e)

	_, err = ParseRPCError(&jsonrpc.RPCError{Code: -32002, Data: "unexpected"})
	assert.Error(t, err)
}

func TestTransactionErrorConstructors(t *testing.T) {
	e := NewTransactionError(TransactionErrorDuplicateSignature)
	assert.Equal(t, decodeJSON(t, `"DuplicateSignature"`), e.raw)
	assert.Equal(t, "DuplicateSignature", e.Error())

	e, err := TransactionErrorFromInstructionError(&InstructionError{
		Index: 0,
		Err:   errors.New(string(InstructionErrorInvalidArgument)),
	})
	require.NoError(t, err)
	assert.Equal(t, decodeJSON(t, `{"InstructionError":[0,"InvalidArgument"]}`), e.raw)

	e, err = TransactionErrorFromInstructionError(&InstructionError{Index: 2, Err: CustomError(3)})
	require.NoError(t, err)
	assert.Equal(t, decodeJSON(t, `{"InstructionError":[2,{"Custom":3}]}`), e.raw)
	assert.Equal(t, "Error processing Instruction 2: custom program error: 0x3", e.Error())

	_, err = TransactionErrorFromInstructionError(&InstructionError{Index: 1})
	assert.Error(t, err)
}

func TestParseJSONNumber(t *testing.T) {
	for _, v := range []interface{}{"7", 7.0, json.Number("7")} {
		n, err := parseJSONNumber(v)
		require.NoError(t, err)
		assert.Equal(t, 7, n, "%T", v)
	}

	for _, v := range []interface{}{"seven", json.Number("7.5"), true} {
		_, err := parseJSONNumber(v)
		assert.Error(t, err, "%v", v)
	}
}

func customError(code int) *CustomError {
	ce := CustomError(code)
	return &ce
}
