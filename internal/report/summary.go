// Package report renders loaded profiling sessions for people and tools:
// summary tables, JSON snapshots and pprof profiles.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/samcharles93/profinfo/pkg/profinfo"
)

// TableSummary describes one count table. Counted, Total and Max only
// consider entries that are not profinfo.Uncounted.
type TableSummary struct {
	Name     string `json:"name"`
	Entries  int    `json:"entries"`
	Counted  int    `json:"counted"`
	Total    uint64 `json:"total"`
	Max      uint32 `json:"max"`
	MaxIndex int    `json:"max_index"`
}

// Summary is the overview of a session shown by `profinfo dump` and the API.
type Summary struct {
	Executions     int                         `json:"executions"`
	CommandLines   []string                    `json:"command_lines"`
	Tables         []TableSummary              `json:"tables"`
	ValueSites     int                         `json:"value_sites"`
	ValueSamples   int                         `json:"value_samples"`
	Packets        map[profinfo.PacketType]int `json:"packets"`
	SwappedPackets int                         `json:"swapped_packets"`
}

// Summarize computes the per-table statistics of s.
func Summarize(s *profinfo.Session) Summary {
	sum := Summary{
		Executions:     s.NumExecutions(),
		CommandLines:   s.CommandLines,
		Tables:         make([]TableSummary, 0, len(profinfo.CountPackets)),
		Packets:        s.Packets,
		SwappedPackets: s.SwappedPackets,
	}
	for _, t := range profinfo.CountPackets {
		sum.Tables = append(sum.Tables, summarizeTable(t.String(), s.Table(t)))
	}
	for _, samples := range s.ValueContents {
		if len(samples) > 0 {
			sum.ValueSites++
			sum.ValueSamples += len(samples)
		}
	}
	return sum
}

func summarizeTable(name string, table []uint32) TableSummary {
	ts := TableSummary{Name: name, Entries: len(table), MaxIndex: -1}
	for i, v := range table {
		if v == profinfo.Uncounted {
			continue
		}
		ts.Counted++
		ts.Total += uint64(v)
		if ts.MaxIndex < 0 || v > ts.Max {
			ts.Max = v
			ts.MaxIndex = i
		}
	}
	return ts
}

// WriteSummary renders sum as a table headed by name.
func WriteSummary(w io.Writer, name string, sum Summary) error {
	if _, err := fmt.Fprintf(w, "%s: %s\n", name, humanize.Plural(sum.Executions, "execution", "executions")); err != nil {
		return err
	}
	for i, cmdline := range sum.CommandLines {
		if _, err := fmt.Fprintf(w, "  [%d] %s\n", i, cmdline); err != nil {
			return err
		}
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Table", "Entries", "Counted", "Total", "Max", "Max index"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, ts := range sum.Tables {
		maxIndex := "-"
		if ts.MaxIndex >= 0 {
			maxIndex = strconv.Itoa(ts.MaxIndex)
		}
		tw.Append([]string{
			ts.Name,
			humanize.Comma(int64(ts.Entries)),
			humanize.Comma(int64(ts.Counted)),
			humanize.Comma(int64(ts.Total)),
			humanize.Comma(int64(ts.Max)),
			maxIndex,
		})
	}
	tw.Render()

	_, err := fmt.Fprintf(w, "value sites: %s, samples: %s, byte-swapped packets: %d\n",
		humanize.Comma(int64(sum.ValueSites)), humanize.Comma(int64(sum.ValueSamples)), sum.SwappedPackets)
	return err
}
