package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult(t *testing.T) {
	var p Participant
	err := decodeResult([]byte(`{"data":{"emailAddress":"a@b.c","firstName":"A","lastName":"B"}}`), &p)
	require.NoError(t, err)
	assert.Equal(t, Participant{Email: "a@b.c", FirstName: "A", LastName: "B"}, p)
}

func TestDecodeResultDiscardsData(t *testing.T) {
	assert.NoError(t, decodeResult([]byte(`{"data":"deleted"}`), nil))
}

func TestDecodeResultChaincodeError(t *testing.T) {
	tests := []struct {
		msg  string
		kind Kind
	}{
		{"Asset with assetId abc does not exist", KindNotFound},
		{"modification mod-1 not found", KindNotFound},
		{"bob is not authorized to delete this asset", KindUnauthorized},
		{"caller is not the owner", KindUnauthorized},
		{"asset with hash ff already exists", KindAlreadyExists},
		{"chaincode panicked", KindLedgerFailure},
	}
	for _, tc := range tests {
		err := decodeResult([]byte(`{"err":"`+tc.msg+`"}`), nil)
		require.Error(t, err, tc.msg)
		assert.Equal(t, tc.kind, KindOf(err), tc.msg)
		assert.Contains(t, err.Error(), tc.msg)
	}
}

func TestDecodeResultMalformed(t *testing.T) {
	err := decodeResult([]byte(`not json`), nil)
	require.Error(t, err)
	assert.Equal(t, KindLedgerFailure, KindOf(err))

	// Neither data nor err is a contract violation.
	err = decodeResult([]byte(`{}`), nil)
	require.Error(t, err)
	assert.Equal(t, KindLedgerFailure, KindOf(err))
}

func TestDecodeAssetRows(t *testing.T) {
	payload := []byte(`[
		{"Key":"id-1","Record":{"assetId":"id-1","assetName":"a.txt","assetOwner":"a@b.c"}},
		{"Key":"id-2","Record":{"assetId":"id-2","assetName":"b.txt","assetOwner":"a@b.c"}}
	]`)
	assets, err := decodeAssetRows(payload)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "id-1", assets[0].AssetID)
	assert.Equal(t, "b.txt", assets[1].AssetName)
}

func TestDecodeAssetRowsEnveloped(t *testing.T) {
	payload := []byte(`{"data":[{"Key":"id-1","Record":{"assetId":"id-1"}}]}`)
	assets, err := decodeAssetRows(payload)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "id-1", assets[0].AssetID)
}

func TestDecodeAssetRowsEmpty(t *testing.T) {
	assets, err := decodeAssetRows([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDecodeAssetRowsError(t *testing.T) {
	_, err := decodeAssetRows([]byte(`{"err":"query failed"}`))
	require.Error(t, err)
	assert.Equal(t, KindLedgerFailure, KindOf(err))
}
