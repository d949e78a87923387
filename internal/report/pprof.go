package report

import (
	"fmt"

	"github.com/google/pprof/profile"

	"github.com/samcharles93/profinfo/pkg/profinfo"
)

// Pprof converts one count table of s into a pprof profile with one sample
// per counted index. names[i], when present, names index i; other indices
// are named "<table>#<index>". Command lines become profile comments.
func Pprof(s *profinfo.Session, table profinfo.PacketType, names []string) (*profile.Profile, error) {
	if !table.IsCount() {
		return nil, fmt.Errorf("%s is not a count table", table)
	}
	counts := s.Table(table)

	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "executions", Unit: "count"}},
		PeriodType: &profile.ValueType{Type: "executions", Unit: "count"},
		Period:     1,
		Comments:   append([]string(nil), s.CommandLines...),
	}
	for i, c := range counts {
		if c == profinfo.Uncounted {
			continue
		}
		name := fmt.Sprintf("%s#%d", table, i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		id := uint64(len(p.Function) + 1)
		fn := &profile.Function{ID: id, Name: name, SystemName: name}
		loc := &profile.Location{ID: id, Line: []profile.Line{{Function: fn}}}
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{int64(c)},
			NumLabel: map[string][]int64{"index": {int64(i)}},
		})
	}
	if err := p.CheckValid(); err != nil {
		return nil, err
	}
	return p, nil
}
