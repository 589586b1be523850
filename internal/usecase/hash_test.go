package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAsset(t *testing.T) {
	// SHA3-512 test vector.
	assert.Equal(t,
		"b751850b1a57168a5693cd924b6b096e08f621827444f70d884f5d0240d2712e"+
			"10e116e9192af3c91a7ec57647e3934057340b4cf408d5a56592f8274eee9905",
		HashAsset([]byte("abc")))
}

func TestHashAssetDeterministic(t *testing.T) {
	data := []byte("the same bytes hash the same")
	assert.Equal(t, HashAsset(data), HashAsset(data))
	assert.Len(t, HashAsset(data), 128)
}

func TestHashAssetSensitivity(t *testing.T) {
	assert.NotEqual(t, HashAsset([]byte("a")), HashAsset([]byte("b")))
	assert.NotEqual(t, HashAsset(nil), HashAsset([]byte{0}))
}
