package rating

// RankTable maps a score to a discrete rank label through an ascending
// cutoff table. Both games share the lookup; only the tables differ.
type RankTable struct {
	Names   []string
	Cutoffs []int // ascending, Cutoffs[0] must be 0
}

// Index returns the greatest i such that score >= Cutoffs[i]. Negative
// scores clamp to 0, scores at or past the last cutoff clamp to the last
// index.
func (t RankTable) Index(score int) int {
	idx := 0
	for i, c := range t.Cutoffs {
		if score >= c {
			idx = i
		}
	}
	return idx
}

func (t RankTable) Name(score int) string {
	return t.Names[t.Index(score)]
}

var ChuniRanks = RankTable{
	Names:   []string{"D", "C", "B", "BB", "BBB", "A", "AA", "AAA", "S", "S+", "SS", "SS+", "SSS", "SSS+"},
	Cutoffs: []int{0, 500000, 600000, 700000, 800000, 900000, 925000, 950000, 975000, 990000, 1000000, 1005000, 1007500, 1009000},
}

// MaiRanks cutoffs are achievement percentages scaled x10,000 against the
// 100.5000% maximum.
var MaiRanks = RankTable{
	Names:   []string{"D", "C", "B", "BB", "BBB", "A", "AA", "AAA", "S", "S+", "SS", "SS+", "SSS", "SSS+"},
	Cutoffs: []int{0, 500000, 600000, 700000, 750000, 800000, 900000, 940000, 970000, 980000, 990000, 995000, 1000000, 1005000},
}
