package usecase

import (
	"encoding/json"
	"strings"
)

// The chaincode answers every transaction with a JSON envelope carrying
// either a data field or an err field. Absence of both is a malformed
// payload and surfaces as a ledger failure, never as a silent default.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Err  string          `json:"err"`
}

// decodeResult unpacks a transaction payload into out. Chaincode-level
// errors are mapped onto the failure taxonomy by inspecting the message:
// the contract reports missing records and authorization rejections in
// stable phrasing.
func decodeResult(payload []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return wrap(KindLedgerFailure, err, "malformed ledger payload")
	}
	if env.Err != "" {
		return errf(chaincodeErrKind(env.Err), "%s", env.Err)
	}
	if env.Data == nil {
		return errf(KindLedgerFailure, "ledger payload has neither data nor err")
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return wrap(KindLedgerFailure, err, "malformed ledger data")
	}
	return nil
}

func chaincodeErrKind(msg string) Kind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "does not exist"), strings.Contains(lower, "not found"):
		return KindNotFound
	case strings.Contains(lower, "not authorized"), strings.Contains(lower, "not the owner"):
		return KindUnauthorized
	case strings.Contains(lower, "already exists"):
		return KindAlreadyExists
	default:
		return KindLedgerFailure
	}
}

// Rich queries return rows of {Key, Record} pairs.
type queryRow struct {
	Key    string          `json:"Key"`
	Record json.RawMessage `json:"Record"`
}

func decodeAssetRows(payload []byte) ([]DigitalAsset, error) {
	var rows []queryRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		// Some contract versions wrap rich-query results in the envelope.
		var raw json.RawMessage
		if envErr := decodeResult(payload, &raw); envErr != nil {
			return nil, envErr
		}
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, wrap(KindLedgerFailure, err, "malformed query result")
		}
	}
	assets := make([]DigitalAsset, 0, len(rows))
	for _, row := range rows {
		var a DigitalAsset
		if err := json.Unmarshal(row.Record, &a); err != nil {
			return nil, wrap(KindLedgerFailure, err, "malformed asset record for key %q", row.Key)
		}
		assets = append(assets, a)
	}
	return assets, nil
}
