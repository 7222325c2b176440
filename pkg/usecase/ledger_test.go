package usecase_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/usecase"
)

func TestLookup(t *testing.T) {
	adv := model.RawAdvisory{
		"name": "axios",
		"via": []any{
			map[string]any{"title": "CSRF", "cwe": []any{"CWE-352"}},
		},
	}

	gt.V(t, usecase.LookupForTest(adv, "name")).Equal(any("axios"))
	gt.V(t, usecase.LookupForTest(adv, "via.0.title")).Equal(any("CSRF"))
	gt.True(t, usecase.LookupForTest(adv, "via.1.title") == nil)
	gt.True(t, usecase.LookupForTest(adv, "via.x.title") == nil)
	gt.True(t, usecase.LookupForTest(adv, "name.first") == nil)
	gt.True(t, usecase.LookupForTest(adv, "") == nil)
}

func TestToVulnerabilities(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("composer advisory", func(t *testing.T) {
		advisories := []model.RawAdvisory{
			{
				"advisoryId":       "PKSA-yfw5-9gnj-n2c7",
				"packageName":      "guzzlehttp/guzzle",
				"affectedVersions": ">=7,<7.4.5|>=4,<6.5.8",
				"title":            "Change in port should be considered a change in origin",
				"cve":              "CVE-2022-31091",
				"link":             "https://github.com/guzzle/guzzle/security/advisories/GHSA-q559-8m2m-g699",
				"reportedAt":       "2022-06-20T22:24:00+00:00",
				"severity":         "high",
			},
			{
				"advisoryId":       "PKSA-2",
				"packageName":      "guzzlehttp/guzzle",
				"affectedVersions": "<7.4.3",
				"title":            "no cve",
				"cve":              nil,
				"reportedAt":       "2022-05-25 14:00:00",
			},
		}

		vulns, err := usecase.ToVulnerabilitiesForTest(types.EcosystemComposer, advisories, now)
		gt.NoError(t, err)
		gt.V(t, len(vulns)).Equal(2)

		v := vulns[0]
		gt.V(t, v.Ecosystem).Equal(types.EcosystemComposer)
		gt.V(t, v.PackageName).Equal("guzzlehttp/guzzle")
		gt.V(t, v.Title).Equal("Change in port should be considered a change in origin")
		gt.V(t, v.URL).Equal("https://github.com/guzzle/guzzle/security/advisories/GHSA-q559-8m2m-g699")
		gt.V(t, v.Severity).Equal("high")
		gt.V(t, v.AffectedVersions).Equal(">=7,<7.4.5|>=4,<6.5.8")
		gt.V(t, *v.CVE).Equal("CVE-2022-31091")
		gt.V(t, *v.AdvisoryID).Equal("PKSA-yfw5-9gnj-n2c7")
		gt.V(t, len(v.CWE)).Equal(0)
		gt.V(t, *v.ReportedAt).Equal(time.Date(2022, 6, 20, 22, 24, 0, 0, time.UTC))
		gt.V(t, v.CreatedAt).Equal(now)

		gt.True(t, vulns[1].CVE == nil)
		gt.V(t, vulns[1].URL).Equal("")
		gt.V(t, *vulns[1].ReportedAt).Equal(time.Date(2022, 5, 25, 14, 0, 0, 0, time.UTC))
	})

	t.Run("node advisory", func(t *testing.T) {
		advisories := []model.RawAdvisory{
			{
				"name":     "axios",
				"severity": "moderate",
				"range":    "0.8.1 - 0.27.2",
				"via": []any{
					map[string]any{
						"source": json.Number("1097679"),
						"title":  "Axios Cross-Site Request Forgery Vulnerability",
						"url":    "https://github.com/advisories/GHSA-wf5p-g6vw-rhxx",
						"cwe":    []any{"CWE-352"},
					},
				},
			},
			{
				"name":     "postcss-loader",
				"severity": "moderate",
				"range":    "<=7.0.2",
				"via":      []any{"postcss"},
			},
		}

		vulns, err := usecase.ToVulnerabilitiesForTest(types.EcosystemNode, advisories, now)
		gt.NoError(t, err)
		gt.V(t, len(vulns)).Equal(2)

		v := vulns[0]
		gt.V(t, v.PackageName).Equal("axios")
		gt.V(t, v.Title).Equal("Axios Cross-Site Request Forgery Vulnerability")
		gt.V(t, v.URL).Equal("https://github.com/advisories/GHSA-wf5p-g6vw-rhxx")
		gt.V(t, v.Severity).Equal("moderate")
		gt.V(t, v.AffectedVersions).Equal("0.8.1 - 0.27.2")
		gt.V(t, *v.AdvisoryID).Equal("1097679")
		gt.V(t, v.CWE).Equal([]string{"CWE-352"})
		gt.True(t, v.CVE == nil)
		gt.True(t, v.ReportedAt == nil)

		// via entries that only name another package carry no advisory details
		gt.V(t, vulns[1].PackageName).Equal("postcss-loader")
		gt.V(t, vulns[1].Title).Equal("")
		gt.True(t, vulns[1].AdvisoryID == nil)
	})

	t.Run("unknown ecosystem", func(t *testing.T) {
		_, err := usecase.ToVulnerabilitiesForTest("cargo", nil, now)
		gt.Error(t, err)
	})
}
