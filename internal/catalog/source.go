package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"sku-matcher/internal/config"
)

// ErrMissing — справочник не найден (нет файла или объекта).
var ErrMissing = errors.New("REF_MISSING")

// Source отдаёт сырые байты справочника и имя файла (по нему выбирается парсер).
type Source interface {
	Fetch(ctx context.Context) (data []byte, name string, err error)
}

// FileSource — справочник рядом с приложением.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", s.Path, ErrMissing)
		}
		return nil, "", err
	}
	return b, filepath.Base(s.Path), nil
}

// NewSource выбирает источник справочника по конфигу: бакет, если задан endpoint, иначе файл.
func NewSource(cfg config.Config) (Source, error) {
	if cfg.RefS3.Enabled() {
		return NewS3Source(S3Config(cfg.RefS3))
	}
	return FileSource{Path: cfg.RefFile}, nil
}
