package completion

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Source supplies the base completion data for a connection.
type Source interface {
	Data(ctx context.Context, conn *neo.Connection) (Data, error)
}

// skipDirs are never descended into while scanning for contracts.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
}

// WorkspaceSource finds compiled contracts (.nef with a sibling .manifest.json)
// under a root directory and pairs them with contracts deployed on the
// connected express node by manifest name.
type WorkspaceSource struct {
	fs     afero.Fs
	root   string
	logger zerolog.Logger
}

func NewWorkspaceSource(fs afero.Fs, root string, logger zerolog.Logger) *WorkspaceSource {
	return &WorkspaceSource{
		fs:     fs,
		root:   root,
		logger: logger.With().Str("component", "completion").Logger(),
	}
}

type compiledContract struct {
	name    string
	nefPath string
}

func (s *WorkspaceSource) Data(ctx context.Context, conn *neo.Connection) (Data, error) {
	data := NewData()

	compiled, err := s.scan()
	if err != nil {
		return data, err
	}

	if conn == nil {
		return data, nil
	}
	lister, ok := conn.Client.(neo.ContractLister)
	if !ok {
		return data, nil
	}

	deployed, err := lister.ListContracts(ctx)
	if err != nil {
		return data, errors.Wrap(err, "listing deployed contracts")
	}

	byName := make(map[string]string, len(deployed))
	for _, c := range deployed {
		byName[c.Manifest.Name] = c.Hash
		data.ContractManifests[c.Hash] = c.Manifest
		data.ContractHashes[c.Manifest.Name] = c.Hash
	}

	for _, c := range compiled {
		hash, ok := byName[c.name]
		if !ok {
			continue
		}
		data.ContractPaths[hash] = append(data.ContractPaths[hash], c.nefPath)
		data.ContractHashes[c.nefPath] = hash
	}
	return data, nil
}

func (s *WorkspaceSource) scan() ([]compiledContract, error) {
	var found []compiledContract

	err := afero.Walk(s.fs, s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != s.root && skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(info.Name(), ".nef") {
			return nil
		}

		manifestPath := strings.TrimSuffix(path, ".nef") + ".manifest.json"
		raw, err := afero.ReadFile(s.fs, manifestPath)
		if err != nil {
			s.logger.Debug().Str("nef", path).Msg("Skipping contract without manifest")
			return nil
		}

		var manifest neo.Manifest
		if err := json.Unmarshal(raw, &manifest); err != nil {
			s.logger.Warn().Err(err).Str("manifest", manifestPath).Msg("Skipping unreadable manifest")
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		found = append(found, compiledContract{name: manifest.Name, nefPath: abs})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s for contracts", s.root)
	}
	return found, nil
}
