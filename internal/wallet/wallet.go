// Package wallet is a filesystem credential store. Each identity lives in
// one JSON file named after its label, matching the layout of the Fabric
// file system wallets this service inherits from older tooling.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/assetledger/assetledger/internal/usecase"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("wallet: creating %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

type identityFile struct {
	MSPID       string `json:"mspId"`
	Type        string `json:"type"`
	Version     int    `json:"version"`
	Credentials struct {
		Certificate string `json:"certificate"`
		PrivateKey  string `json:"privateKey"`
	} `json:"credentials"`
}

func (s *Store) path(label string) string {
	// Labels are email addresses; keep the file name flat.
	name := strings.ReplaceAll(label, string(os.PathSeparator), "_")
	return filepath.Join(s.dir, name+".id")
}

func (s *Store) Exists(_ context.Context, label string) (bool, error) {
	_, err := os.Stat(s.path(label))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("wallet: stat %q: %w", label, err)
	}
	return true, nil
}

func (s *Store) Get(_ context.Context, label string) (usecase.Credential, error) {
	raw, err := os.ReadFile(s.path(label))
	if err != nil {
		return usecase.Credential{}, fmt.Errorf("wallet: reading %q: %w", label, err)
	}
	var f identityFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return usecase.Credential{}, fmt.Errorf("wallet: decoding %q: %w", label, err)
	}
	return usecase.Credential{
		MSPID:       f.MSPID,
		Certificate: []byte(f.Credentials.Certificate),
		PrivateKey:  []byte(f.Credentials.PrivateKey),
	}, nil
}

func (s *Store) Import(_ context.Context, label string, cred usecase.Credential) error {
	f := identityFile{
		MSPID:   cred.MSPID,
		Type:    "X.509",
		Version: 1,
	}
	f.Credentials.Certificate = string(cred.Certificate)
	f.Credentials.PrivateKey = string(cred.PrivateKey)

	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: encoding %q: %w", label, err)
	}
	if err := os.WriteFile(s.path(label), raw, 0o600); err != nil {
		return fmt.Errorf("wallet: writing %q: %w", label, err)
	}
	return nil
}
