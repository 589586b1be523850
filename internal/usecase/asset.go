package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DigitalAsset mirrors the ledger-resident record. The ledger owns it; this
// layer only reads and writes it through transactions.
type DigitalAsset struct {
	AssetID                      string                `json:"assetId"`
	AssetName                    string                `json:"assetName"`
	AssetHash                    string                `json:"assetHash"`
	AssetOwner                   string                `json:"assetOwner"`
	ApprovedUsers                []string              `json:"approvedUsers"`
	ModificationsPendingApproval []PendingModification `json:"modificationsPendingApproval"`
	CreatedBy                    string                `json:"createdBy,omitempty"`
	LastModifiedBy               string                `json:"lastModifiedBy,omitempty"`
}

// PendingModification is a staged, unapproved change awaiting the owner's
// decision. Its candidate bytes live in the artifact store under
// ModFileName until the record is resolved.
type PendingModification struct {
	ModID          string `json:"modId"`
	ModFileName    string `json:"modFileName"`
	ModFileHash    string `json:"modFileHash"`
	LastModifiedBy string `json:"lastModifiedBy"`
}

// AssetHistoryEntry is one committed transaction in an asset's audit trail.
type AssetHistoryEntry struct {
	TxID      string          `json:"txId"`
	Timestamp string          `json:"timestamp"`
	IsDelete  bool            `json:"isDelete"`
	Value     json.RawMessage `json:"value"`
}

// Artifact store keys. Live objects are addressed by asset id, staged
// candidates by their disambiguated file name recorded on the ledger.
func liveObject(assetID string) string { return "assets/" + assetID }
func stagedObject(name string) string  { return "staged/" + name }

// IsApprovedModifier reports whether email may update the asset without
// triggering the approval workflow.
func (a DigitalAsset) IsApprovedModifier(email string) bool {
	if email == a.AssetOwner {
		return true
	}
	for _, u := range a.ApprovedUsers {
		if u == email {
			return true
		}
	}
	return false
}

func (u Usecase) QueryAllDigitalAssets(ctx context.Context, caller string) ([]DigitalAsset, error) {
	sess, err := u.ledger.Connect(ctx, caller)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "connecting as %q", caller)
	}
	defer sess.Close()

	payload, err := sess.Evaluate(ctx, "queryAllDigitalAssets", caller)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "queryAllDigitalAssets")
	}
	return decodeAssetRows(payload)
}

func (u Usecase) QueryDigitalAssetsByUser(ctx context.Context, caller, email string) ([]DigitalAsset, error) {
	sess, err := u.ledger.Connect(ctx, caller)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "connecting as %q", caller)
	}
	defer sess.Close()

	payload, err := sess.Evaluate(ctx, "queryDigitalAssetsByUser", email)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "queryDigitalAssetsByUser")
	}
	return decodeAssetRows(payload)
}

func (u Usecase) ReadDigitalAsset(ctx context.Context, caller, assetID string) (DigitalAsset, error) {
	sess, err := u.ledger.Connect(ctx, caller)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "connecting as %q", caller)
	}
	defer sess.Close()

	return u.readAsset(ctx, sess, assetID)
}

func (u Usecase) readAsset(ctx context.Context, sess LedgerSession, assetID string) (DigitalAsset, error) {
	payload, err := sess.Evaluate(ctx, "readDigitalAsset", assetID)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "readDigitalAsset %s", assetID)
	}
	var asset DigitalAsset
	if err := decodeResult(payload, &asset); err != nil {
		return DigitalAsset{}, err
	}
	return asset, nil
}

// findAssetByHash runs the global-uniqueness lookup. The reference contract
// exposes this as a submit transaction; it must complete before any
// mutating step. Returns nil when the hash is unclaimed.
func (u Usecase) findAssetByHash(ctx context.Context, sess LedgerSession, hash string) (*DigitalAsset, error) {
	payload, err := sess.Submit(ctx, "queryDigitalAssetByHash", hash)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "queryDigitalAssetByHash")
	}
	assets, err := decodeAssetRows(payload)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, nil
	}
	return &assets[0], nil
}

// CreateDigitalAsset registers a new asset: fingerprint, dedup check, fresh
// time-ordered id, staged upload, then the endorsed ledger commit.
//
// The dedup check and the commit are not atomic across concurrent callers;
// when two callers race the same hash the ledger rejects the losing commit
// and that rejection surfaces as a DuplicateAsset here.
func (u Usecase) CreateDigitalAsset(ctx context.Context, name, fileType string, data []byte, createdBy string) (DigitalAsset, error) {
	sess, err := u.ledger.Connect(ctx, createdBy)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "connecting as %q", createdBy)
	}
	defer sess.Close()

	hash := HashAsset(data)
	existing, err := u.findAssetByHash(ctx, sess, hash)
	if err != nil {
		return DigitalAsset{}, err
	}
	if existing != nil {
		return DigitalAsset{}, &Error{
			Kind:     KindDuplicateAsset,
			Msg:      "this asset already exists in the system - assetId: " + existing.AssetID,
			Conflict: existing,
		}
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "generating asset id")
	}
	assetID := id.String()

	if err := u.storage.Put(ctx, liveObject(assetID), data, fileType); err != nil {
		return DigitalAsset{}, wrap(KindExternalIO, err, "staging asset %s", assetID)
	}

	payload, err := sess.SubmitWithEndorsers(ctx, "createDigitalAsset", u.cfg.EndorsingOrgs,
		assetID, name, hash, createdBy)
	if err != nil {
		if ledgerErr := asDuplicateCommit(ctx, u, sess, hash, err); ledgerErr != nil {
			return DigitalAsset{}, ledgerErr
		}
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "createDigitalAsset %s", assetID)
	}
	var asset DigitalAsset
	if err := decodeResult(payload, &asset); err != nil {
		// The contract itself can reject the commit when another create
		// claimed the hash since the check above.
		if ledgerErr := asDuplicateCommit(ctx, u, sess, hash, err); ledgerErr != nil {
			return DigitalAsset{}, ledgerErr
		}
		return DigitalAsset{}, err
	}
	return asset, nil
}

// asDuplicateCommit checks whether a failed commit lost a dedup race: if
// the hash is claimed now, the failure is a DuplicateAsset carrying the
// winner's record.
func asDuplicateCommit(ctx context.Context, u Usecase, sess LedgerSession, hash string, cause error) error {
	winner, err := u.findAssetByHash(ctx, sess, hash)
	if err != nil || winner == nil {
		return nil
	}
	return &Error{
		Kind:     KindDuplicateAsset,
		Msg:      "this asset already exists in the system - assetId: " + winner.AssetID,
		Conflict: winner,
		Err:      cause,
	}
}

// UpdateOutcome reports which branch an update took. Pending is true when
// the change was routed to the approval workflow; Asset then carries the
// record with its updated pending-modification list.
type UpdateOutcome struct {
	Asset   DigitalAsset
	Pending bool
}

// UpdateDigitalAsset replaces an asset's content. Owners and approved
// users update directly; anyone else files a pending modification that the
// owner must resolve. The live record is never touched on the approval
// branch.
func (u Usecase) UpdateDigitalAsset(ctx context.Context, assetID, fileType string, data []byte, modifiedBy string) (UpdateOutcome, error) {
	sess, err := u.ledger.Connect(ctx, modifiedBy)
	if err != nil {
		return UpdateOutcome{}, wrap(KindLedgerFailure, err, "connecting as %q", modifiedBy)
	}
	defer sess.Close()

	hash := HashAsset(data)
	existing, err := u.findAssetByHash(ctx, sess, hash)
	if err != nil {
		return UpdateOutcome{}, err
	}
	if existing != nil {
		return UpdateOutcome{}, &Error{
			Kind:     KindDuplicateAsset,
			Msg:      "this asset already exists in the system - assetId: " + existing.AssetID,
			Conflict: existing,
		}
	}

	asset, err := u.readAsset(ctx, sess, assetID)
	if err != nil {
		return UpdateOutcome{}, err
	}

	if asset.IsApprovedModifier(modifiedBy) {
		if err := u.storage.Put(ctx, liveObject(assetID), data, fileType); err != nil {
			return UpdateOutcome{}, wrap(KindExternalIO, err, "uploading asset %s", assetID)
		}
		payload, err := sess.Submit(ctx, "updateDigitalAsset", assetID, hash, modifiedBy)
		if err != nil {
			return UpdateOutcome{}, wrap(KindLedgerFailure, err, "updateDigitalAsset %s", assetID)
		}
		var updated DigitalAsset
		if err := decodeResult(payload, &updated); err != nil {
			return UpdateOutcome{}, err
		}
		u.publish(ctx, EventAssetUpdated, updated, modifiedBy, []string{updated.AssetOwner})
		return UpdateOutcome{Asset: updated}, nil
	}

	candidate := candidateFileName(asset.AssetName, time.Now())
	if err := u.storage.Put(ctx, stagedObject(candidate), data, fileType); err != nil {
		return UpdateOutcome{}, wrap(KindExternalIO, err, "staging candidate for asset %s", assetID)
	}
	payload, err := sess.Submit(ctx, "addPendingModificationToDigitalAsset",
		assetID, candidate, hash, modifiedBy)
	if err != nil {
		return UpdateOutcome{}, wrap(KindLedgerFailure, err, "addPendingModificationToDigitalAsset %s", assetID)
	}
	var updated DigitalAsset
	if err := decodeResult(payload, &updated); err != nil {
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Asset: updated, Pending: true}, nil
}

// candidateFileName inserts a millisecond timestamp before the extension
// so a staged candidate can never collide with the live name.
func candidateFileName(assetName string, now time.Time) string {
	ext := filepath.Ext(assetName)
	base := assetName[:len(assetName)-len(ext)]
	return base + "_" + strconv.FormatInt(now.UnixMilli(), 10) + ext
}

// ChangeOwnershipOfAsset transfers an asset. Who may initiate the transfer
// is enforced by the contract, not here.
func (u Usecase) ChangeOwnershipOfAsset(ctx context.Context, assetID, modifier, newOwner string) (DigitalAsset, error) {
	sess, err := u.ledger.Connect(ctx, modifier)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "connecting as %q", modifier)
	}
	defer sess.Close()

	payload, err := sess.Submit(ctx, "changeOwnershipOfAsset", assetID, modifier, newOwner)
	if err != nil {
		return DigitalAsset{}, wrap(KindLedgerFailure, err, "changeOwnershipOfAsset %s", assetID)
	}
	var asset DigitalAsset
	if err := decodeResult(payload, &asset); err != nil {
		return DigitalAsset{}, err
	}
	u.publish(ctx, EventOwnershipChanged, asset, modifier, []string{modifier, newOwner})
	return asset, nil
}

// DeleteDigitalAsset removes an asset and everything staged against it.
// Artifact deletions are best effort: individual failures are logged and
// skipped so a half-missing staging area cannot wedge the delete. The
// ledger delete is not retried on failure; the record stays in place for
// the operator.
func (u Usecase) DeleteDigitalAsset(ctx context.Context, assetID, deleter string) error {
	sess, err := u.ledger.Connect(ctx, deleter)
	if err != nil {
		return wrap(KindLedgerFailure, err, "connecting as %q", deleter)
	}
	defer sess.Close()

	asset, err := u.readAsset(ctx, sess, assetID)
	if err != nil {
		return err
	}
	for _, mod := range asset.ModificationsPendingApproval {
		if err := u.storage.Delete(ctx, stagedObject(mod.ModFileName)); err != nil {
			slog.Warn("deleting staged modification artifact",
				slog.String("asset_id", assetID),
				slog.String("mod_file", mod.ModFileName),
				slog.String("err", err.Error()))
		}
	}

	payload, err := sess.Submit(ctx, "deleteDigitalAsset", assetID, deleter)
	if err != nil {
		return wrap(KindLedgerFailure, err, "deleteDigitalAsset %s", assetID)
	}
	if err := decodeResult(payload, nil); err != nil {
		return err
	}

	if err := u.storage.Delete(ctx, liveObject(assetID)); err != nil {
		slog.Warn("deleting live asset artifact",
			slog.String("asset_id", assetID),
			slog.String("err", err.Error()))
	}
	return nil
}

// GetHistoryForDigitalAsset returns the asset's full transaction trail.
// History is a platform-level audit operation, so it runs under the
// administrative identity rather than the caller's.
func (u Usecase) GetHistoryForDigitalAsset(ctx context.Context, assetID string) ([]AssetHistoryEntry, error) {
	if err := uuid.Validate(assetID); err != nil {
		return nil, wrap(KindInvalidArgument, err, "invalid asset id %q", assetID)
	}

	sess, err := u.ledger.Connect(ctx, u.cfg.AdminUser)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "connecting as admin")
	}
	defer sess.Close()

	payload, err := sess.Submit(ctx, "getHistoryForDigitalAsset", assetID)
	if err != nil {
		return nil, wrap(KindLedgerFailure, err, "getHistoryForDigitalAsset %s", assetID)
	}
	var history []AssetHistoryEntry
	if err := decodeResult(payload, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// DownloadDigitalAssetFile fetches the live asset bytes from the artifact
// store.
func (u Usecase) DownloadDigitalAssetFile(ctx context.Context, assetID string) ([]byte, error) {
	data, err := u.storage.Download(ctx, liveObject(assetID))
	if err != nil {
		return nil, wrap(KindExternalIO, err, "downloading asset %s", assetID)
	}
	return data, nil
}
