package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAssetEventEmailUpdated(t *testing.T) {
	ev := AssetEvent{
		Type:       EventAssetUpdated,
		AssetID:    "id-1",
		AssetName:  "report.pdf",
		Actor:      bob,
		Recipients: []string{alice},
		OccurredAt: time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
	}

	email, err := BuildAssetEventEmail(ev, "noreply@assetledger.io")
	require.NoError(t, err)

	assert.Equal(t, []string{alice}, email.To)
	assert.Equal(t, "noreply@assetledger.io", email.From)
	assert.Equal(t, "Digital Asset Updated", email.Subject)
	assert.Contains(t, email.Body, "report.pdf")
	assert.Contains(t, email.Body, bob)
	// Updates carry no QR code.
	assert.NotContains(t, email.Body, "data:image/png")
}

func TestBuildAssetEventEmailOwnershipCarriesQRCode(t *testing.T) {
	ev := AssetEvent{
		Type:       EventOwnershipChanged,
		AssetID:    "id-1",
		AssetName:  "report.pdf",
		Actor:      alice,
		Recipients: []string{alice, bob},
		OccurredAt: time.Now(),
	}

	email, err := BuildAssetEventEmail(ev, "noreply@assetledger.io")
	require.NoError(t, err)
	assert.Equal(t, "Digital Asset Ownership Changed", email.Subject)
	assert.Contains(t, email.Body, "data:image/png;base64,")
}

func TestBuildAssetEventEmailUnknownType(t *testing.T) {
	_, err := BuildAssetEventEmail(AssetEvent{Type: "asset.vanished"}, "noreply@assetledger.io")
	assert.Error(t, err)
}
