package achievements

import (
	"reflect"
	"testing"
)

func allCorrect(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

func TestQualified(t *testing.T) {
	tests := []struct {
		name string
		a    Activity
		want []string
	}{
		{"nothing yet", Activity{}, nil},
		{"first answer", Activity{TotalAttempts: 1, RecentResults: []bool{false}}, []string{FirstSteps}},
		{"nine quick answers", Activity{TotalAttempts: 9, QuickAttempts: 9}, []string{FirstSteps}},
		{"ten quick answers", Activity{TotalAttempts: 10, QuickAttempts: 10}, []string{FirstSteps, QuickLearner}},
		{"19 in a row", Activity{TotalAttempts: 19, RecentResults: allCorrect(19)}, []string{FirstSteps}},
		{"20 in a row", Activity{TotalAttempts: 20, RecentResults: allCorrect(20)}, []string{FirstSteps, Perfectionist}},
		{
			"everything",
			Activity{TotalAttempts: 150, QuickAttempts: 40, RecentResults: allCorrect(20), DistinctCategories: 6, ActiveDays: 7},
			[]string{FirstSteps, QuickLearner, Perfectionist, DedicatedLearner, KnowledgeSeeker, StreakMaster},
		},
		{"six active days", Activity{TotalAttempts: 30, ActiveDays: 6, DistinctCategories: 4}, []string{FirstSteps}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Qualified(tt.a)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Qualified() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerfectRunBrokenByOneMiss(t *testing.T) {
	results := allCorrect(20)
	results[13] = false
	if perfectRun(Activity{RecentResults: results}) {
		t.Error("perfectRun() = true with a miss in the last 20")
	}
}

func TestRulesFollowCatalogOrder(t *testing.T) {
	all := All()
	if len(all) != len(rules) {
		t.Fatalf("catalog has %d entries, rules has %d", len(all), len(rules))
	}
	for i := range rules {
		if rules[i].id != all[i].ID {
			t.Errorf("rules[%d] = %s, catalog[%d] = %s", i, rules[i].id, i, all[i].ID)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "changed"
	if got, _ := Lookup(FirstSteps); got.Name == "changed" {
		t.Error("mutating All() result changed the catalog")
	}
}
