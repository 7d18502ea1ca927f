package refstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/logging"
	"github.com/gitlite/gitlite/pkg/vcs"
)

const (
	// PartitionKey all repository state lives under a single kv partition
	PartitionKey = "repo"

	formatKey      = "format"
	headKey        = "HEAD"
	branchesPrefix = "branches"
	commitsPrefix  = "commits"
	indexPrefix    = "index"

	// FormatVersion is written under formatKey; the marker of an
	// initialized repository.
	FormatVersion = "1"

	// commit keys are zero-padded so the kv scan order is numeric order
	commitKeyWidth = 20
)

// Manager persists the repository state in a kv store and implements
// vcs.Store. All mutations of one command go through a single Apply batch.
type Manager struct {
	store kv.Store
	log   logging.Logger
}

func NewManager(store kv.Store) *Manager {
	return &Manager{
		store: store,
		log:   logging.Default().WithField(logging.ServiceNameFieldKey, "refstore"),
	}
}

type branchRecord struct {
	Commits []uint64 `json:"commits"`
}

type commitRecord struct {
	ID      uint64            `json:"id"`
	Message string            `json:"message"`
	Files   map[string][]byte `json:"files"`
}

func branchPath(name string) string {
	return kv.FormatPath(branchesPrefix, name)
}

func commitPath(id vcs.CommitID) string {
	return kv.FormatPath(commitsPrefix, fmt.Sprintf("%0*d", commitKeyWidth, uint64(id)))
}

func indexPath(name string) string {
	return kv.FormatPath(indexPrefix, name)
}

func (m *Manager) Init(ctx context.Context) error {
	_, err := m.store.Get(ctx, []byte(PartitionKey), []byte(formatKey))
	switch {
	case err == nil:
		return vcs.ErrAlreadyInitialized
	case !errors.Is(err, kv.ErrNotFound):
		return fmt.Errorf("read format marker: %w", err)
	}
	trunk, err := json.Marshal(branchRecord{Commits: []uint64{}})
	if err != nil {
		return err
	}
	var ops kv.Operations
	ops.Set([]byte(PartitionKey), []byte(formatKey), []byte(FormatVersion))
	ops.Set([]byte(PartitionKey), []byte(headKey), []byte(vcs.DefaultBranchID))
	ops.Set([]byte(PartitionKey), []byte(branchPath(vcs.DefaultBranchID)), trunk)
	if err := m.store.Apply(ctx, ops); err != nil {
		return fmt.Errorf("initialize repository: %w", err)
	}
	m.log.WithContext(ctx).Debug("initialized repository")
	return nil
}

func (m *Manager) Load(ctx context.Context) (*vcs.Snapshot, error) {
	if _, err := m.store.Get(ctx, []byte(PartitionKey), []byte(formatKey)); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, vcs.ErrNotInitialized
		}
		return nil, fmt.Errorf("read format marker: %w", err)
	}
	head, err := m.store.Get(ctx, []byte(PartitionKey), []byte(headKey))
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	snapshot := &vcs.Snapshot{
		CurrentBranch: string(head),
		Branches:      make(map[string]*vcs.Branch),
		Commits:       make(map[vcs.CommitID]*vcs.Commit),
		Index:         make(map[string][]byte),
	}

	it, err := m.store.Scan(ctx, []byte(PartitionKey), nil)
	if err != nil {
		return nil, fmt.Errorf("scan repository: %w", err)
	}
	defer it.Close()
	for it.Next() {
		entry := it.Entry()
		key := string(entry.Key)
		switch {
		case strings.HasPrefix(key, branchesPrefix+kv.PathDelimiter):
			name := strings.TrimPrefix(key, branchesPrefix+kv.PathDelimiter)
			var record branchRecord
			if err := json.Unmarshal(entry.Value, &record); err != nil {
				return nil, fmt.Errorf("decode branch %s: %w", name, err)
			}
			branch := &vcs.Branch{Name: name, Commits: make(map[vcs.CommitID]struct{}, len(record.Commits))}
			for _, id := range record.Commits {
				branch.Commits[vcs.CommitID(id)] = struct{}{}
			}
			snapshot.Branches[name] = branch
		case strings.HasPrefix(key, commitsPrefix+kv.PathDelimiter):
			var record commitRecord
			if err := json.Unmarshal(entry.Value, &record); err != nil {
				return nil, fmt.Errorf("decode commit %s: %w", key, err)
			}
			commit := &vcs.Commit{
				ID:      vcs.CommitID(record.ID),
				Message: record.Message,
				Files:   record.Files,
			}
			if commit.Files == nil {
				commit.Files = make(map[string][]byte)
			}
			snapshot.Commits[commit.ID] = commit
		case strings.HasPrefix(key, indexPrefix+kv.PathDelimiter):
			name := strings.TrimPrefix(key, indexPrefix+kv.PathDelimiter)
			snapshot.Index[name] = entry.Value
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("scan repository: %w", err)
	}
	if _, ok := snapshot.Branches[snapshot.CurrentBranch]; !ok {
		return nil, fmt.Errorf("HEAD %s: %w", snapshot.CurrentBranch, vcs.ErrBranchNotFound)
	}
	return snapshot, nil
}

func (m *Manager) Apply(ctx context.Context, changes *vcs.Changeset) error {
	var ops kv.Operations
	for _, name := range changes.DelBranches {
		ops.Delete([]byte(PartitionKey), []byte(branchPath(name)))
	}
	for _, name := range changes.DelIndex {
		ops.Delete([]byte(PartitionKey), []byte(indexPath(name)))
	}
	for _, commit := range changes.WriteCommits {
		value, err := json.Marshal(commitRecord{
			ID:      uint64(commit.ID),
			Message: commit.Message,
			Files:   commit.Files,
		})
		if err != nil {
			return fmt.Errorf("encode commit %d: %w", commit.ID, err)
		}
		ops.Set([]byte(PartitionKey), []byte(commitPath(commit.ID)), value)
	}
	for name, ids := range changes.SetBranches {
		record := branchRecord{Commits: make([]uint64, 0, len(ids))}
		for _, id := range ids {
			record.Commits = append(record.Commits, uint64(id))
		}
		value, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode branch %s: %w", name, err)
		}
		ops.Set([]byte(PartitionKey), []byte(branchPath(name)), value)
	}
	for name, blob := range changes.PutIndex {
		if blob == nil {
			blob = []byte{}
		}
		ops.Set([]byte(PartitionKey), []byte(indexPath(name)), blob)
	}
	if changes.NewHead != nil {
		ops.Set([]byte(PartitionKey), []byte(headKey), []byte(*changes.NewHead))
	}
	if len(ops) == 0 {
		return nil
	}
	if err := m.store.Apply(ctx, ops); err != nil {
		return fmt.Errorf("apply changes: %w", err)
	}
	return nil
}

// ParseCommitKey recovers the commit ID from a zero-padded commit key,
// used by diagnostics and tests.
func ParseCommitKey(key string) (vcs.CommitID, error) {
	raw := strings.TrimPrefix(key, commitsPrefix+kv.PathDelimiter)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, vcs.ErrInvalidValue)
	}
	return vcs.CommitID(id), nil
}
