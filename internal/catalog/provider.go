package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"sku-matcher/internal/fileio"
	"sku-matcher/internal/matcher/service"
)

// Snapshot — построенный индекс одной версии справочника. Только для чтения.
type Snapshot struct {
	Name  string
	Hash  string
	Index *service.Index
}

// Provider загружает справочник и кеширует индекс по sha256 содержимого.
// Изменился файл — новый хеш — индекс строится заново целиком.
type Provider struct {
	src    Source
	cache  *lru.Cache[string, *Snapshot]
	logger zerolog.Logger
}

func NewProvider(src Source, cacheSize int, logger zerolog.Logger) (*Provider, error) {
	if src == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, *Snapshot](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Provider{src: src, cache: cache, logger: logger}, nil
}

// Snapshot возвращает индекс текущей версии справочника.
func (p *Provider) Snapshot(ctx context.Context) (*Snapshot, error) {
	data, name, err := p.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if snap, ok := p.cache.Get(hash); ok {
		return snap, nil
	}

	snap, err := Build(data, name)
	if err != nil {
		return nil, err
	}
	snap.Hash = hash
	p.cache.Add(hash, snap)

	p.logger.Info().
		Str("catalog", name).
		Str("sha256", hash[:12]).
		Int("rows", snap.Index.Len()).
		Int("skus", len(snap.Index.SKUs())).
		Msg("catalog index built")
	return snap, nil
}

// Build разбирает байты справочника и строит индекс.
func Build(data []byte, name string) (*Snapshot, error) {
	rows, err := fileio.ReadAnyRows(bytes.NewReader(data), name)
	if err != nil {
		return nil, err
	}
	items, err := service.LoadReferenceItems(rows)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Name: name, Index: service.BuildIndex(items)}, nil
}
