package completion

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bjartek/invokepanel/pkg/invocation"
	"github.com/bjartek/invokepanel/pkg/neo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Data is the auto-complete information offered while editing steps.
type Data struct {
	ContractManifests  map[string]neo.Manifest `json:"contractManifests"`  // contract hash -> manifest
	ContractPaths      map[string][]string     `json:"contractPaths"`      // contract hash -> .nef paths
	ContractHashes     map[string]string       `json:"contractHashes"`     // contract name or path -> hash
	WellKnownAddresses map[string]string       `json:"wellKnownAddresses"` // wallet name -> address
}

// NewData returns Data with all maps allocated.
func NewData() Data {
	return Data{
		ContractManifests:  map[string]neo.Manifest{},
		ContractPaths:      map[string][]string{},
		ContractHashes:     map[string]string{},
		WellKnownAddresses: map[string]string{},
	}
}

// Clone returns a deep copy. Manifests are shared since they are never modified.
func (d Data) Clone() Data {
	out := NewData()
	for k, v := range d.ContractManifests {
		out.ContractManifests[k] = v
	}
	for k, v := range d.ContractPaths {
		out.ContractPaths[k] = append([]string(nil), v...)
	}
	for k, v := range d.ContractHashes {
		out.ContractHashes[k] = v
	}
	for k, v := range d.WellKnownAddresses {
		out.WellKnownAddresses[k] = v
	}
	return out
}

const fetchConcurrency = 4

// Augment enriches base for the document at documentPath. Absolute contract
// paths gain an alias relative to the document, and every contract hash used
// by a step of file is resolved against the node. Lookups that fail are
// returned keyed by hash and do not affect the rest of the result.
func Augment(ctx context.Context, documentPath string, base Data, file invocation.File, conn *neo.Connection, logger zerolog.Logger) (Data, map[string]error) {
	out := base.Clone()
	addRelativePaths(out, filepath.Dir(documentPath))

	failures := map[string]error{}
	if conn == nil || conn.Client == nil {
		return out, failures
	}
	if conn.Accounts != nil {
		for name, addr := range conn.Accounts.Addresses() {
			if _, ok := out.WellKnownAddresses[name]; !ok {
				out.WellKnownAddresses[name] = addr
			}
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, hash := range contractHashes(file) {
		hash := hash
		g.Go(func() error {
			state, err := conn.Client.GetContractState(gctx, hash)
			if err == nil && state == nil {
				err = neo.ErrUnknown
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Debug().Err(err).Str("contract", hash).Msg("Could not fetch contract manifest")
				failures[hash] = err
				return nil
			}
			out.ContractManifests[state.Hash] = state.Manifest
			return nil
		})
	}
	_ = g.Wait()

	return out, failures
}

func addRelativePaths(d Data, dir string) {
	for hash, paths := range d.ContractPaths {
		all := append([]string(nil), paths...)
		for _, p := range paths {
			if !filepath.IsAbs(p) {
				continue
			}
			rel, err := filepath.Rel(dir, p)
			if err != nil {
				continue
			}
			all = append(all, rel)
			if h, ok := d.ContractHashes[p]; ok {
				d.ContractHashes[rel] = h
			}
		}
		d.ContractPaths[hash] = dedupSorted(all)
	}
}

func dedupSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// contractHashes returns the distinct contract hashes referenced by file.
func contractHashes(file invocation.File) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, step := range file {
		if !step.IsContractHash() {
			continue
		}
		if _, ok := seen[step.Contract]; ok {
			continue
		}
		seen[step.Contract] = struct{}{}
		out = append(out, step.Contract)
	}
	return out
}
