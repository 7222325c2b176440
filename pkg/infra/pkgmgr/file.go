package pkgmgr

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// FileSource reads pre-generated reports named "<ecosystem>-outdated.json" and
// "<ecosystem>-audit.json" from a directory. A missing report is treated as empty.
type FileSource struct {
	dir string
}

var _ interfaces.AuditSource = (*FileSource)(nil)

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (x *FileSource) read(ctx context.Context, eco types.Ecosystem, kind string) ([]byte, error) {
	if err := eco.Validate(); err != nil {
		return nil, err
	}

	path := filepath.Join(x.dir, eco.String()+"-"+kind+".json")
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		logging.From(ctx).Warn("audit report not found, treating as empty", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read audit report", goerr.V("path", path))
	}

	return data, nil
}

func (x *FileSource) FetchOutdated(ctx context.Context, eco types.Ecosystem) ([]model.OutdatedEntry, error) {
	data, err := x.read(ctx, eco, "outdated")
	if err != nil {
		return nil, err
	}
	return ParseOutdated(eco, data)
}

func (x *FileSource) FetchAdvisories(ctx context.Context, eco types.Ecosystem) (*model.AdvisoryReport, error) {
	data, err := x.read(ctx, eco, "audit")
	if err != nil {
		return nil, err
	}
	return ParseAdvisories(eco, data)
}
