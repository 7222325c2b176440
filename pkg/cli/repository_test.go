package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/cli"
)

func TestParseRemoteURL(t *testing.T) {
	testCases := []struct {
		url   string
		owner string
		repo  string
	}{
		{url: "git@github.com:webhubworks/shop.git", owner: "webhubworks", repo: "shop"},
		{url: "https://github.com/webhubworks/shop.git", owner: "webhubworks", repo: "shop"},
		{url: "https://github.com/webhubworks/shop", owner: "webhubworks", repo: "shop"},
		{url: "ssh://git@gitlab.example.com/group/sub/shop.git", owner: "sub", repo: "shop"},
		{url: "ssh://git@github.com:22/webhubworks/shop.git", owner: "webhubworks", repo: "shop"},
		{url: "git@gitlab.example.com:group/sub/shop.git", owner: "sub", repo: "shop"},
		{url: "https://github.com/webhubworks", owner: "", repo: ""},
		{url: "shop", owner: "", repo: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			owner, repo := cli.ParseRemoteURLForTest(tc.url)
			gt.V(t, owner).Equal(tc.owner)
			gt.V(t, repo).Equal(tc.repo)
		})
	}
}

func TestDetectRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit name wins", func(t *testing.T) {
		name, err := cli.DetectRepository(ctx, t.TempDir(), "webhubworks/explicit")
		gt.NoError(t, err)
		gt.V(t, name).Equal("webhubworks/explicit")
	})

	t.Run("composer.json name", func(t *testing.T) {
		dir := t.TempDir()
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "composer.json"), []byte(`{"name": "webhubworks/shop"}`), 0644))

		name, err := cli.DetectRepository(ctx, dir, "")
		gt.NoError(t, err)
		gt.V(t, name).Equal("webhubworks/shop")
	})

	t.Run("git remote origin", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := git.PlainInit(dir, false)
		gt.NoError(t, err)
		_, err = repo.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{"git@github.com:webhubworks/from-git.git"},
		})
		gt.NoError(t, err)

		name, err := cli.DetectRepository(ctx, dir, "")
		gt.NoError(t, err)
		gt.V(t, name).Equal("webhubworks/from-git")
	})

	t.Run("no source of name", func(t *testing.T) {
		_, err := cli.DetectRepository(ctx, t.TempDir(), "")
		gt.Error(t, err)
	})
}
