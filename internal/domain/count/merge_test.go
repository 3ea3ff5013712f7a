package count_test

import (
	"testing"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/stretchr/testify/require"
)

func ids(sessions []count.CountSession) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func TestMerge_Idempotent(t *testing.T) {
	set := []count.CountSession{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	merged := count.Merge(set, set)
	require.Equal(t, []string{"a", "b", "c"}, ids(merged))
}

func TestMerge_LocalWins(t *testing.T) {
	local := []count.CountSession{{ID: "a", Environment: "X"}}
	incoming := []count.CountSession{{ID: "a", Environment: "Y"}, {ID: "b", Environment: "Z"}}

	merged := count.Merge(local, incoming)
	require.Equal(t, []string{"a", "b"}, ids(merged))
	require.Equal(t, "X", merged[0].Environment)
	require.Equal(t, "Z", merged[1].Environment)
}

func TestMerge_IncomingDuplicates(t *testing.T) {
	incoming := []count.CountSession{{ID: "n", Sector: "first"}, {ID: "n", Sector: "second"}}
	merged := count.Merge(nil, incoming)
	require.Len(t, merged, 1)
	require.Equal(t, "first", merged[0].Sector)
}

func TestParsePayload(t *testing.T) {
	payload := []byte(`{
		"sessions": [
			{"id": "s1", "environment": "Lake A", "counter": "Ana",
			 "events": [{"number": 1, "minor": 2, "major": 1, "timestamp": "10:00:00"}],
			 "total_minor": 2, "total_major": 1},
			{"id": "s2", "environment": "Lake B",
			 "events": [{"number": 1, "minor": 4, "major": 5, "timestamp": "11:00:00"}]},
			{"id": "s3", "environment": "Lake C", "total_minor": 7, "total_major": 0}
		]
	}`)

	sessions, err := count.ParsePayload(payload)
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2", "s3"}, ids(sessions))
	require.Equal(t, 2, sessions[0].TotalMinor)
	require.Equal(t, 4, sessions[1].TotalMinor, "totals derived when absent")
	require.Equal(t, 5, sessions[1].TotalMajor)
	require.Equal(t, 7, sessions[2].TotalMinor, "declared totals kept without events")
	require.Equal(t, []count.CountEvent{}, sessions[2].Events)
}

func TestParsePayload_SequentialEvents(t *testing.T) {
	sessions, err := count.ParsePayload([]byte(`{"sessions": [{"id": "a", "environment": "A", "events": [
		{"number": 1, "minor": 1, "major": 0},
		{"number": 2, "minor": 2, "major": 3},
		{"number": 3, "minor": 0, "major": 4}
	]}]}`))
	require.NoError(t, err)
	require.Len(t, sessions[0].Events, 3)
	require.Equal(t, 3, sessions[0].TotalMinor)
	require.Equal(t, 7, sessions[0].TotalMajor)
}

func TestParsePayload_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":         `{`,
		"array root":       `[]`,
		"missing sessions": `{"items": []}`,
		"sessions object":  `{"sessions": {}}`,
		"sessions null":    `{"sessions": null}`,
		"record not obj":   `{"sessions": [1]}`,
		"missing id":       `{"sessions": [{"environment": "A"}]}`,
		"empty id":         `{"sessions": [{"id": "", "environment": "A"}]}`,
		"numeric id":       `{"sessions": [{"id": 3, "environment": "A"}]}`,
		"missing env":      `{"sessions": [{"id": "a"}]}`,
		"events object":    `{"sessions": [{"id": "a", "environment": "A", "events": {}}]}`,
		"bad count type":   `{"sessions": [{"id": "a", "environment": "A", "events": [{"minor": "x"}]}]}`,
		"negative count":   `{"sessions": [{"id": "a", "environment": "A", "events": [{"number": 1, "minor": -1}]}]}`,
		"one bad of many":  `{"sessions": [{"id": "a", "environment": "A"}, {"environment": "B"}]}`,
		"null env":         `{"sessions": [{"id": "a", "environment": null}]}`,
		"repeated number":  `{"sessions": [{"id": "a", "environment": "A", "events": [{"number": 1}, {"number": 1}]}]}`,
		"number gap":       `{"sessions": [{"id": "a", "environment": "A", "events": [{"number": 1}, {"number": 7}]}]}`,
		"starts at zero":   `{"sessions": [{"id": "a", "environment": "A", "events": [{"number": 0}]}]}`,
		"only minor total": `{"sessions": [{"id": "b", "environment": "A", "events": [{"number": 1, "minor": 3, "major": 9}], "total_minor": 3}]}`,
		"only major total": `{"sessions": [{"id": "b", "environment": "A", "total_major": 2}]}`,
		"null totals":      `{"sessions": [{"id": "b", "environment": "A", "total_minor": null, "total_major": null}]}`,
		"negative total":   `{"sessions": [{"id": "b", "environment": "A", "total_minor": -1, "total_major": 0}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			sessions, err := count.ParsePayload([]byte(payload))
			require.ErrorIs(t, err, count.ErrMalformedPayload)
			require.Nil(t, sessions)
		})
	}
}

func TestParsePayload_Empty(t *testing.T) {
	sessions, err := count.ParsePayload([]byte(`{"sessions": []}`))
	require.NoError(t, err)
	require.Empty(t, sessions)
}
