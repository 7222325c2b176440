package config

import (
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/infra/pkgmgr"
)

// Tooling locates the project, its SBOM documents and the package manager tooling.
type Tooling struct {
	projectDir   string
	sbomDir      string
	reportDir    string
	composerPath string
	npmPath      string
}

func (x *Tooling) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project-dir",
			Usage:       "Project directory containing composer.json and package.json",
			Category:    "Tooling",
			Aliases:     []string{"d"},
			Value:       ".",
			Destination: &x.projectDir,
			Sources:     cli.EnvVars("GOODSOUP_PROJECT_DIR"),
		},
		&cli.StringFlag{
			Name:        "sbom-dir",
			Usage:       "Directory of sbom-<ecosystem>.json files, relative to the project directory",
			Category:    "Tooling",
			Value:       "sboms",
			Destination: &x.sbomDir,
			Sources:     cli.EnvVars("GOODSOUP_SBOM_DIR"),
		},
		&cli.StringFlag{
			Name:        "report-dir",
			Usage:       "Read pre-generated <ecosystem>-outdated.json and <ecosystem>-audit.json reports instead of running composer and npm",
			Category:    "Tooling",
			Destination: &x.reportDir,
			Sources:     cli.EnvVars("GOODSOUP_REPORT_DIR"),
		},
		&cli.StringFlag{
			Name:        "composer-path",
			Usage:       "Path to composer binary",
			Category:    "Tooling",
			Value:       "composer",
			Destination: &x.composerPath,
			Sources:     cli.EnvVars("GOODSOUP_COMPOSER_PATH"),
		},
		&cli.StringFlag{
			Name:        "npm-path",
			Usage:       "Path to npm binary",
			Category:    "Tooling",
			Value:       "npm",
			Destination: &x.npmPath,
			Sources:     cli.EnvVars("GOODSOUP_NPM_PATH"),
		},
	}
}

func (x *Tooling) ProjectDir() string {
	return x.projectDir
}

// SBOMDir returns the SBOM directory resolved against the project directory.
func (x *Tooling) SBOMDir() string {
	if filepath.IsAbs(x.sbomDir) {
		return x.sbomDir
	}
	return filepath.Join(x.projectDir, x.sbomDir)
}

// Inputs returns the SBOM and manifest locations of every supported ecosystem.
func (x *Tooling) Inputs() []model.EcosystemInput {
	manifests := map[types.Ecosystem]string{
		types.EcosystemComposer: "composer.json",
		types.EcosystemNode:     "package.json",
	}

	inputs := make([]model.EcosystemInput, 0, len(types.Ecosystems))
	for _, eco := range types.Ecosystems {
		inputs = append(inputs, model.EcosystemInput{
			Ecosystem:    eco,
			SBOMPath:     filepath.Join(x.SBOMDir(), "sbom-"+eco.String()+".json"),
			ManifestPath: filepath.Join(x.projectDir, manifests[eco]),
		})
	}
	return inputs
}

// NewAuditSource reads report files when a report directory is set and runs the package managers
// otherwise.
func (x *Tooling) NewAuditSource() interfaces.AuditSource {
	if x.reportDir != "" {
		return pkgmgr.NewFileSource(x.reportDir)
	}
	return pkgmgr.NewCommandSource(x.projectDir,
		pkgmgr.WithComposerPath(x.composerPath),
		pkgmgr.WithNpmPath(x.npmPath),
	)
}

func (x *Tooling) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("ProjectDir", x.projectDir),
		slog.String("SBOMDir", x.sbomDir),
		slog.String("ReportDir", x.reportDir),
		slog.String("ComposerPath", x.composerPath),
		slog.String("NpmPath", x.npmPath),
	)
}
