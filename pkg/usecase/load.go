package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
	"github.com/webhubworks/goodsoup/pkg/utils/safe"
)

// LoadSBOM loads a CycloneDX SBOM from an io.Reader and validates it
func LoadSBOM(ctx context.Context, r io.Reader) (*model.SBOM, error) {
	var sbom model.SBOM
	if err := json.NewDecoder(r).Decode(&sbom); err != nil {
		return nil, goerr.Wrap(err, "failed to decode SBOM")
	}

	if err := sbom.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid SBOM")
	}

	return &sbom, nil
}

// LoadSBOMFromFile loads a CycloneDX SBOM from a file. A missing file yields an empty SBOM.
func LoadSBOMFromFile(ctx context.Context, filePath string) (*model.SBOM, error) {
	fd, err := os.Open(filepath.Clean(filePath))
	if errors.Is(err, fs.ErrNotExist) {
		logging.From(ctx).Warn("SBOM file not found, no components to ingest", "path", filePath)
		return &model.SBOM{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open SBOM file", goerr.V("path", filePath))
	}
	defer safe.Close(fd)

	return LoadSBOM(ctx, fd)
}

type composerJSON struct {
	Name       string         `json:"name"`
	Require    map[string]any `json:"require"`
	RequireDev map[string]any `json:"require-dev"`
}

type packageJSON struct {
	Name            string         `json:"name"`
	Dependencies    map[string]any `json:"dependencies"`
	DevDependencies map[string]any `json:"devDependencies"`
}

// LoadManifest reads composer.json or package.json depending on the ecosystem
func LoadManifest(ctx context.Context, eco types.Ecosystem, r io.Reader) (*model.Manifest, error) {
	switch eco {
	case types.EcosystemComposer:
		var doc composerJSON
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode composer.json")
		}
		return &model.Manifest{
			Name:            doc.Name,
			Dependencies:    keys(doc.Require),
			DevDependencies: keys(doc.RequireDev),
		}, nil

	case types.EcosystemNode:
		var doc packageJSON
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode package.json")
		}
		return &model.Manifest{
			Name:            doc.Name,
			Dependencies:    keys(doc.Dependencies),
			DevDependencies: keys(doc.DevDependencies),
		}, nil
	}

	return nil, goerr.Wrap(types.ErrInvalidOption, "unsupported ecosystem", goerr.V("ecosystem", eco))
}

// LoadManifestFromFile reads a manifest file. A missing file yields a manifest without dependencies.
func LoadManifestFromFile(ctx context.Context, eco types.Ecosystem, filePath string) (*model.Manifest, error) {
	fd, err := os.Open(filepath.Clean(filePath))
	if errors.Is(err, fs.ErrNotExist) {
		logging.From(ctx).Warn("manifest file not found, no direct dependencies", "path", filePath, "ecosystem", eco)
		return &model.Manifest{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open manifest file", goerr.V("path", filePath))
	}
	defer safe.Close(fd)

	return LoadManifest(ctx, eco, fd)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
