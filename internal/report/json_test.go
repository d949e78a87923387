package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samcharles93/profinfo/pkg/profinfo"
)

func TestWriteJSONRoundTrip(t *testing.T) {
	t.Parallel()

	s := testSession()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, "llvmprof.out", s, true))
	require.Contains(t, buf.String(), `"function_counts": [`)
	require.Contains(t, buf.String(), `"function": 1`)

	snap, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Equal(t, "llvmprof.out", snap.Source)
	require.Equal(t, s.FunctionCounts, snap.Session.FunctionCounts)
	require.Equal(t, s.ValueContents, snap.Session.ValueContents)
	require.Equal(t, s.CommandLines, snap.Session.CommandLines)
	require.Equal(t, 1, snap.Session.Packets[profinfo.FunctionInfo])
	require.Equal(t, 3, snap.Summary.Tables[0].Counted)
}
