package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// filePending creates an asset owned by alice and files one pending
// modification from bob, returning the asset id and the modification.
func filePending(t *testing.T, w *world, candidate []byte) (string, PendingModification) {
	t.Helper()
	ctx := context.Background()

	asset, err := w.uc.CreateDigitalAsset(ctx, "doc.txt", "text/plain", []byte("original"), alice)
	require.NoError(t, err)

	outcome, err := w.uc.UpdateDigitalAsset(ctx, asset.AssetID, "text/plain", candidate, bob)
	require.NoError(t, err)
	require.True(t, outcome.Pending)
	require.Len(t, outcome.Asset.ModificationsPendingApproval, 1)
	return asset.AssetID, outcome.Asset.ModificationsPendingApproval[0]
}

func TestProcessAssetModRequestApprove(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	assetID, mod := filePending(t, w, []byte("candidate"))

	asset, err := w.uc.ProcessAssetModRequest(ctx, assetID, mod.ModID, alice, true, false)
	require.NoError(t, err)

	// The candidate became the live content and the queue drained.
	assert.Equal(t, HashAsset([]byte("candidate")), asset.AssetHash)
	assert.Equal(t, bob, asset.LastModifiedBy)
	assert.Empty(t, asset.ModificationsPendingApproval)

	// The staged artifact moved into the live slot.
	assert.Equal(t, []string{stagedObject(mod.ModFileName) + "->" + liveObject(assetID)}, w.storage.promotes)
	assert.NotContains(t, w.storage.objects, stagedObject(mod.ModFileName))
	assert.Equal(t, []byte("candidate"), w.storage.objects[liveObject(assetID)])

	// Submitter was not granted standing approval.
	assert.Empty(t, asset.ApprovedUsers)

	events := w.pub.ofType(EventModApproved)
	require.Len(t, events, 1)
	assert.ElementsMatch(t, []string{alice, bob}, events[0].Recipients)

	assert.Zero(t, w.ledger.open)
}

func TestProcessAssetModRequestApproveWithStandingGrant(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	assetID, mod := filePending(t, w, []byte("candidate"))

	asset, err := w.uc.ProcessAssetModRequest(ctx, assetID, mod.ModID, alice, true, true)
	require.NoError(t, err)
	assert.Contains(t, asset.ApprovedUsers, bob)

	// Bob's next change now applies directly.
	outcome, err := w.uc.UpdateDigitalAsset(ctx, assetID, "text/plain", []byte("follow-up"), bob)
	require.NoError(t, err)
	assert.False(t, outcome.Pending)
}

func TestProcessAssetModRequestReject(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	assetID, mod := filePending(t, w, []byte("candidate"))
	liveHash := w.ledger.assets[assetID].AssetHash

	asset, err := w.uc.ProcessAssetModRequest(ctx, assetID, mod.ModID, alice, false, false)
	require.NoError(t, err)

	assert.Equal(t, liveHash, asset.AssetHash)
	assert.Empty(t, asset.ModificationsPendingApproval)
	assert.Empty(t, asset.ApprovedUsers)

	// The staged candidate was discarded, nothing promoted.
	assert.NotContains(t, w.storage.objects, stagedObject(mod.ModFileName))
	assert.Empty(t, w.storage.promotes)
	assert.Empty(t, w.pub.ofType(EventModApproved))
}

func TestProcessAssetModRequestRejectWithStandingGrant(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	assetID, mod := filePending(t, w, []byte("candidate"))

	// The grant is independent of the verdict: rejected change, but the
	// submitter may modify directly from now on.
	asset, err := w.uc.ProcessAssetModRequest(ctx, assetID, mod.ModID, alice, false, true)
	require.NoError(t, err)
	assert.Contains(t, asset.ApprovedUsers, bob)
	assert.Empty(t, asset.ModificationsPendingApproval)
}

func TestProcessAssetModRequestPromoteFailureLeavesPending(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	assetID, mod := filePending(t, w, []byte("candidate"))
	liveHash := w.ledger.assets[assetID].AssetHash

	w.storage.failPromote = errors.New("copy failed")

	_, err := w.uc.ProcessAssetModRequest(ctx, assetID, mod.ModID, alice, true, false)
	require.Error(t, err)
	assert.Equal(t, KindExternalIO, KindOf(err))

	// Nothing changed: the pending record survives for a retry and the
	// live content is untouched.
	current := w.ledger.assets[assetID]
	assert.Equal(t, liveHash, current.AssetHash)
	require.Len(t, current.ModificationsPendingApproval, 1)
	assert.Equal(t, mod.ModID, current.ModificationsPendingApproval[0].ModID)
}

func TestProcessAssetModRequestResolutionTimeCollision(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	assetID, mod := filePending(t, w, []byte("candidate"))

	// Another asset claims the candidate's fingerprint before the owner
	// gets around to approving.
	rival, err := w.uc.CreateDigitalAsset(ctx, "rival.txt", "text/plain", []byte("candidate"), carol)
	require.NoError(t, err)

	_, err = w.uc.ProcessAssetModRequest(ctx, assetID, mod.ModID, alice, true, false)
	require.Error(t, err)
	assert.Equal(t, KindDuplicateAsset, KindOf(err))
	require.NotNil(t, ConflictOf(err))
	assert.Equal(t, rival.AssetID, ConflictOf(err).AssetID)

	// The pending record is not consumed by the failed approval.
	require.Len(t, w.ledger.assets[assetID].ModificationsPendingApproval, 1)
	assert.Empty(t, w.storage.promotes)
}

func TestProcessAssetModRequestUnknownModification(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	asset, err := w.uc.CreateDigitalAsset(ctx, "doc.txt", "text/plain", []byte("original"), alice)
	require.NoError(t, err)

	_, err = w.uc.ProcessAssetModRequest(ctx, asset.AssetID, "mod-404", alice, true, false)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestViewAssetModificationRequests(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	assetID, _ := filePending(t, w, []byte("candidate"))

	// A second asset with no pending work stays out of the view.
	_, err := w.uc.CreateDigitalAsset(ctx, "quiet.txt", "text/plain", []byte("quiet"), alice)
	require.NoError(t, err)

	pending, err := w.uc.ViewAssetModificationRequests(ctx, alice)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, assetID, pending[0].AssetID)
	require.Len(t, pending[0].ModificationsPendingApproval, 1)

	// Other owners see nothing.
	none, err := w.uc.ViewAssetModificationRequests(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// Exercises the full lifecycle of a contested change: create, stranger
// update routed to approval, review, approve, verify the asset converged.
func TestModificationWorkflowEndToEnd(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	created, err := w.uc.CreateDigitalAsset(ctx, "contract.pdf", "application/pdf", []byte("v1"), alice)
	require.NoError(t, err)

	outcome, err := w.uc.UpdateDigitalAsset(ctx, created.AssetID, "application/pdf", []byte("v2"), bob)
	require.NoError(t, err)
	require.True(t, outcome.Pending)

	pending, err := w.uc.ViewAssetModificationRequests(ctx, alice)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	mod := pending[0].ModificationsPendingApproval[0]

	resolved, err := w.uc.ProcessAssetModRequest(ctx, created.AssetID, mod.ModID, alice, true, false)
	require.NoError(t, err)
	assert.Equal(t, HashAsset([]byte("v2")), resolved.AssetHash)
	assert.Empty(t, resolved.ModificationsPendingApproval)

	after, err := w.uc.ViewAssetModificationRequests(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, after)

	data, err := w.uc.DownloadDigitalAssetFile(ctx, created.AssetID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)

	assert.Zero(t, w.ledger.open)
}
