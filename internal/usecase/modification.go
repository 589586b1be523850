package usecase

import (
	"context"
	"log/slog"
)

// ViewAssetModificationRequests lists the caller's assets that carry
// pending modifications awaiting a decision.
func (u Usecase) ViewAssetModificationRequests(ctx context.Context, caller string) ([]DigitalAsset, error) {
	sess, err := u.ledger.Connect(ctx, caller)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "connecting as %q", caller)
	}
	defer sess.Close()

	payload, err := sess.Evaluate(ctx, "queryAllPendingModificationRequests", caller)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "queryAllPendingModificationRequests")
	}
	return decodeAssetRows(payload)
}

// ProcessAssetModRequest resolves one pending modification.
//
// Ordering matters: the approved-user grant happens first and is
// independent of the approve/reject outcome. On approval the staged
// artifact must be promoted before the live record changes; if promotion
// fails the pending record is left in place for a retry, never silently
// cleared. Removal by id is the only way a pending record exits.
func (u Usecase) ProcessAssetModRequest(ctx context.Context, assetID, modID, caller string, approve, addApprovedUser bool) (DigitalAsset, error) {
	sess, err := u.ledger.Connect(ctx, caller)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "connecting as %q", caller)
	}
	defer sess.Close()

	payload, err := sess.Submit(ctx, "getModificationPendingApprovalFromAsset", assetID, modID)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "getModificationPendingApprovalFromAsset %s", modID)
	}
	var mod PendingModification
	if err := decodeResult(payload, &mod); err != nil {
		return DigitalAsset{}, err
	}

	if addApprovedUser {
		payload, err := sess.Submit(ctx, "addApprovedModifierToDigitalAsset", assetID, mod.LastModifiedBy)
		if err != nil {
			return DigitalAsset{}, wrap(KindLedgerFailure, err, "addApprovedModifierToDigitalAsset %s", assetID)
		}
		if err := decodeResult(payload, nil); err != nil {
			return DigitalAsset{}, err
		}
	}

	if approve {
		// The candidate hash was unique when the modification was filed;
		// another asset may have claimed it since. Re-check before the
		// promotion commits a second collision.
		existing, err := u.findAssetByHash(ctx, sess, mod.ModFileHash)
		if err != nil {
			return DigitalAsset{}, err
		}
		if existing != nil && existing.AssetID != assetID {
			return DigitalAsset{}, &Error{
				Kind:     KindDuplicateAsset,
				Msg:      "candidate content now collides with asset " + existing.AssetID,
				Conflict: existing,
			}
		}

		if err := u.storage.Promote(ctx, stagedObject(mod.ModFileName), liveObject(assetID)); err != nil {
			return DigitalAsset{}, wrap(KindExternalIO, err, "promoting %s", mod.ModFileName)
		}
		payload, err := sess.Submit(ctx, "updateDigitalAsset", assetID, mod.ModFileHash, mod.LastModifiedBy)
		if err != nil {
			return DigitalAsset{}, wrap(KindLedgerFailure, err, "updateDigitalAsset %s", assetID)
		}
		if err := decodeResult(payload, nil); err != nil {
			return DigitalAsset{}, err
		}
	} else {
		// Rejected candidates are cleaned up like the delete-asset path.
		if err := u.storage.Delete(ctx, stagedObject(mod.ModFileName)); err != nil {
			slog.Warn("deleting rejected modification artifact",
				slog.String("asset_id", assetID),
				slog.String("mod_file", mod.ModFileName),
				slog.String("err", err.Error()))
		}
	}

	payload, err = sess.Submit(ctx, "deleteModificationPendingApprovalFromAsset", assetID, modID)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "deleteModificationPendingApprovalFromAsset %s", modID)
	}
	var asset DigitalAsset
	if err := decodeResult(payload, &asset); err != nil {
		return DigitalAsset{}, err
	}

	if approve {
		u.publish(ctx, EventModApproved, asset, caller, []string{asset.AssetOwner, mod.LastModifiedBy})
	}
	return asset, nil
}
