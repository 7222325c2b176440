package versioning_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/domain/versioning"
)

func TestSplitClauses(t *testing.T) {
	gt.V(t, versioning.SplitClauses("<2.0.0|>=3.0.0 <3.5.0")).Equal([]string{"<2.0.0", ">=3.0.0 <3.5.0"})
	gt.V(t, versioning.SplitClauses("<2.0.0 || >=3.0.0")).Equal([]string{"<2.0.0", ">=3.0.0"})
	gt.A(t, versioning.SplitClauses("  ")).Length(0)
}

func TestLess(t *testing.T) {
	testCases := map[string]struct {
		eco    types.Ecosystem
		a, b   string
		expect bool
	}{
		"composer older":           {types.EcosystemComposer, "1.9.0", "2.0.0", true},
		"composer same":            {types.EcosystemComposer, "2.0.0", "2.0.0", false},
		"composer v prefix":        {types.EcosystemComposer, "v1.2.0", "1.10.0", true},
		"composer four segments":   {types.EcosystemComposer, "1.2.3.4", "1.2.3.10", true},
		"node older":               {types.EcosystemNode, "4.17.20", "4.17.21", true},
		"node newer":               {types.EcosystemNode, "5.0.0", "4.17.21", false},
		"node prerelease is older": {types.EcosystemNode, "5.0.0-beta.1", "5.0.0", true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			s := gt.R1(versioning.For(tc.eco)).NoError(t)
			gt.V(t, gt.R1(s.Less(tc.a, tc.b)).NoError(t)).Equal(tc.expect)
		})
	}

	t.Run("unparsable version", func(t *testing.T) {
		s := gt.R1(versioning.For(types.EcosystemNode)).NoError(t)
		_, err := s.Less("not-a-version", "1.0.0")
		gt.Error(t, err)
	})

	t.Run("unknown ecosystem", func(t *testing.T) {
		_, err := versioning.For("pypi")
		gt.Error(t, err)
	})
}

func TestRangeFilter(t *testing.T) {
	filter := versioning.RangeFilter{MinLowerBound: "0.0.1"}

	for _, eco := range types.Ecosystems {
		s := gt.R1(versioning.For(eco)).NoError(t)

		t.Run(eco.String()+" bounded clauses", func(t *testing.T) {
			gt.True(t, filter.Bounded(s, "<2.0.0"))
			gt.True(t, filter.Bounded(s, ">=3.0.0 <3.5.0"))
			gt.True(t, filter.Bounded(s, ">=1.0.0"))
		})

		t.Run(eco.String()+" ignored clauses", func(t *testing.T) {
			gt.False(t, filter.Bounded(s, "*"))
			gt.False(t, filter.Bounded(s, ">=0.0.0"))
			gt.False(t, filter.Bounded(s, "<0.0.1"))
		})

		t.Run(eco.String()+" affected", func(t *testing.T) {
			expr := "<2.0.0|>=3.0.0 <3.5.0"
			gt.False(t, filter.Affected(s, expr, "2.0.0"))
			gt.True(t, filter.Affected(s, expr, "1.9.0"))
			gt.True(t, filter.Affected(s, expr, "3.4.9"))
			gt.False(t, filter.Affected(s, expr, "3.5.0"))
			gt.False(t, filter.Affected(s, "*", "1.0.0"))
		})
	}

	t.Run("unparsable clause is ignored", func(t *testing.T) {
		s := gt.R1(versioning.For(types.EcosystemComposer)).NoError(t)
		gt.False(t, filter.Bounded(s, "not a range"))
		gt.True(t, filter.Affected(s, "not a range|<2.0.0", "1.0.0"))
	})
}

func TestComposerFourSegments(t *testing.T) {
	s := gt.R1(versioning.For(types.EcosystemComposer)).NoError(t)

	t.Run("check falls back for 4-segment versions", func(t *testing.T) {
		gt.True(t, gt.R1(s.Check("<2.0.0", "1.2.3.4")).NoError(t))
		gt.False(t, gt.R1(s.Check("<2.0.0", "2.0.0.1")).NoError(t))
		gt.True(t, gt.R1(s.Check(">=1.2.3.0 <1.2.3.5", "1.2.3.4")).NoError(t))
		gt.True(t, gt.R1(s.Check(">= 1.0, < 2.0", "v1.5.0.2")).NoError(t))
	})

	t.Run("affected by a bounded range", func(t *testing.T) {
		filter := versioning.RangeFilter{MinLowerBound: "0.0.1"}
		gt.True(t, filter.Affected(s, "<2.0.0", "1.2.3.4"))
		gt.True(t, filter.Affected(s, ">=3.0.0 <3.5.0|<1.0.0.5", "1.0.0.4"))
		gt.False(t, filter.Affected(s, "<2.0.0", "2.1.0.0"))
	})

	t.Run("unparsable clause is still an error", func(t *testing.T) {
		_, err := s.Check("not a range", "1.2.3.4")
		gt.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	for _, eco := range types.Ecosystems {
		s := gt.R1(versioning.For(eco)).NoError(t)

		t.Run(eco.String(), func(t *testing.T) {
			gt.NoError(t, s.Validate("0.0.1"))
			gt.NoError(t, s.Validate("1.2.3"))
			gt.Error(t, s.Validate("garbage"))
			gt.Error(t, s.Validate(""))
		})
	}

	t.Run("composer accepts 4 segments", func(t *testing.T) {
		s := gt.R1(versioning.For(types.EcosystemComposer)).NoError(t)
		gt.NoError(t, s.Validate("1.2.3.4"))
	})
}
