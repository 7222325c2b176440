package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/usecase"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// DetectRepository resolves the repository name of the project. An explicit name wins, then the
// "name" of composer.json, then owner/repo of the git remote "origin".
func DetectRepository(ctx context.Context, projectDir, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	manifest, err := usecase.LoadManifestFromFile(ctx, types.EcosystemComposer, filepath.Join(projectDir, "composer.json"))
	if err != nil {
		logging.From(ctx).Warn("failed to read composer.json for repository name", "error", err)
	} else if manifest.Name != "" {
		return manifest.Name, nil
	}

	repo, err := git.PlainOpenWithOptions(projectDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", goerr.Wrap(err, "failed to open git repository, set --repository", goerr.V("dir", projectDir))
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", goerr.Wrap(err, "failed to get remote origin")
	}
	if len(remote.Config().URLs) == 0 {
		return "", goerr.New("no remote URL found")
	}

	url := remote.Config().URLs[0]
	owner, repoName := parseRemoteURL(url)
	if owner == "" || repoName == "" {
		return "", goerr.New("failed to parse owner/repo from git remote URL", goerr.V("url", url))
	}

	return owner + "/" + repoName, nil
}

// parseRemoteURL extracts owner and repository from a remote URL in any form go-git accepts:
// scp-like (git@host:owner/repo.git), ssh:// or https://.
func parseRemoteURL(url string) (owner, repoName string) {
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return "", ""
	}

	path := strings.TrimSuffix(strings.Trim(ep.Path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", ""
	}

	// nested groups (GitLab) keep only the last two segments
	return parts[len(parts)-2], parts[len(parts)-1]
}
