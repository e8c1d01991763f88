package directory

import (
	"context"

	"github.com/google/uuid"

	"persondir/internal/records"
)

// personIndex is the immutable product of one join pass: persons grouped by
// identity, with group order fixed by first appearance in the profiles
// dataset and order within a group fixed by insertion.
type personIndex struct {
	order  []uuid.UUID
	groups map[uuid.UUID][]Person
	total  int
}

func (idx *personIndex) find(id uuid.UUID) []Person {
	return idx.groups[id]
}

func (idx *personIndex) all() []Person {
	out := make([]Person, 0, idx.total)
	for _, id := range idx.order {
		out = append(out, idx.groups[id]...)
	}
	return out
}

// snapshot returns the memoized index, building it on first use. Concurrent
// first callers serialize on the build mutex so each source is read exactly
// once; a failed build publishes nothing and the next caller retries. After
// publication reads are lock-free.
func (s *Service) snapshot(ctx context.Context) (*personIndex, error) {
	if idx := s.index.Load(); idx != nil {
		return idx, nil
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	if idx := s.index.Load(); idx != nil {
		return idx, nil
	}

	start := s.now()
	ctx, span := s.tracer.Start(ctx, opBuildIndex)
	idx, err := s.buildIndex(ctx)
	span.End(err)
	s.metrics.Observe(ctx, opBuildIndex, err == nil, s.now().Sub(start))
	if err != nil {
		s.logger.Error("index build failed", "error", err)
		return nil, err
	}

	s.index.Store(idx)
	return idx, nil
}

// buildIndex loads both datasets, inner-joins them on the name|email
// composite key, maps every matched pair into a Person and groups the results
// by identity. Profiles without a matching account are dropped: the datasets
// are maintained independently and partial overlap is expected.
func (s *Service) buildIndex(ctx context.Context) (*personIndex, error) {
	profiles, err := records.LoadKeyed(ctx, s.store, s.cfg.ProfilesSource, records.Profile.Key)
	if err != nil {
		return nil, err
	}
	accounts, err := records.LoadKeyed(ctx, s.store, s.cfg.AccountsSource, records.Account.Key)
	if err != nil {
		return nil, err
	}

	idx := &personIndex{
		groups: make(map[uuid.UUID][]Person),
	}
	unmatched := 0
	for _, key := range profiles.Keys() {
		account, ok := accounts.Get(key)
		if !ok {
			unmatched++
			continue
		}
		id, err := uuid.Parse(account.PersonID)
		if err != nil {
			return nil, InvalidIdentityError{JoinKey: key, Value: account.PersonID, Err: err}
		}
		profile, _ := profiles.Get(key)
		person, err := s.mapper(profile, PersonData{ID: id})
		if err != nil {
			return nil, err
		}
		if _, seen := idx.groups[id]; !seen {
			idx.order = append(idx.order, id)
		}
		idx.groups[id] = append(idx.groups[id], person)
		idx.total++
	}

	s.logger.Debug("person index built",
		"profiles", profiles.Len(),
		"accounts", accounts.Len(),
		"persons", idx.total,
		"identities", len(idx.order),
		"unmatched_profiles", unmatched,
	)
	return idx, nil
}
