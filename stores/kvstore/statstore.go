package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gridforge/gridstore/interfaces"
)

// statisticsStore persists statistics as JSON records keyed by
// "<adapterID>/<statName>".
type statisticsStore struct {
	kv KV
}

func newStatisticsStore(kv KV) interfaces.StatisticsStore {
	return &statisticsStore{kv: kv}
}

func (s *statisticsStore) SetStatistic(ctx context.Context, stat interfaces.Statistic) error {
	if err := stat.Validate(); err != nil {
		return fmt.Errorf("invalid statistic: %w", err)
	}
	raw, err := json.Marshal(stat)
	if err != nil {
		return fmt.Errorf("encoding statistic %q: %w", stat.Name, err)
	}
	return s.kv.Put(ctx, NamespaceStatistics, statKey(stat.AdapterID, stat.Name), raw)
}

func (s *statisticsStore) GetStatistic(ctx context.Context, id interfaces.AdapterID, name string) (interfaces.Statistic, error) {
	raw, err := s.kv.Get(ctx, NamespaceStatistics, statKey(id, name))
	if err != nil {
		return interfaces.Statistic{}, err
	}
	var stat interfaces.Statistic
	if err := json.Unmarshal(raw, &stat); err != nil {
		return interfaces.Statistic{}, fmt.Errorf("decoding statistic %q: %w", name, err)
	}
	return stat, nil
}

func (s *statisticsStore) RemoveStatistic(ctx context.Context, id interfaces.AdapterID, name string) error {
	return s.kv.Delete(ctx, NamespaceStatistics, statKey(id, name))
}

func statKey(id interfaces.AdapterID, name string) string {
	return id.String() + "/" + url.PathEscape(name)
}
