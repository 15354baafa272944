package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_ChaseByWickets(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/chase_by_wickets.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
}

func TestRunWithGolden_TiedMatch(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/tied_match.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, strings.Join(result.Errors, "\n"))
}

// The golden files beside the scenarios are what "scorebook test" compares
// against; they must agree with a fresh run.
func TestScenarioGoldenFiles(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios", "")
	require.NoError(t, err)

	for _, f := range files {
		golden := GoldenFilePath(f)
		want, err := os.ReadFile(golden)
		if os.IsNotExist(err) {
			continue
		}
		require.NoError(t, err)

		s, err := LoadScenario(f)
		require.NoError(t, err)
		result, err := Run(s)
		require.NoError(t, err)

		got, err := Snapshot{ScenarioName: s.Name, FlowToken: s.FlowToken, Result: result}.Canonical()
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), golden)
	}
}

func TestSnapshot_SkipsDeliveryEvents(t *testing.T) {
	result, err := Run(mustParse(t, oneOverScenario))
	require.NoError(t, err)

	data, err := Snapshot{ScenarioName: "one_over", FlowToken: "flow-1", Result: result}.Canonical()
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, `{"flow_token":"flow-1","matches":[`), out)
	assert.NotContains(t, out, "delivery_recorded")
	assert.Contains(t, out, `"result":"Lions won by 7 runs"`)
	assert.Contains(t, out, `{"seq":12,"type":"match_completed"}`)
}

func TestSnapshot_OmitsUnstartedInnings(t *testing.T) {
	data := strings.Replace(oneOverScenario, `      - batters: [201, 202]
        bowlers: [110]
        balls: ["1 1 1 1 1 1"]
`, "", 1)
	data = strings.Replace(data, `{ result: "Lions won by 7 runs" }`, `{ status: live }`, 1)

	result, err := Run(mustParse(t, data))
	require.NoError(t, err)
	require.True(t, result.Pass, strings.Join(result.Errors, "\n"))

	out, err := Snapshot{ScenarioName: "half", Result: result}.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"innings":[{"batting":1,"extras":0,"number":1,"overs":"1.0","runs":13,"wickets":1}]`)
	assert.NotContains(t, string(out), "flow_token")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "sub/c.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	files, err := FindScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yaml"),
	}, files)

	files, err = FindScenarioFiles(dir, "b*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)

	_, err = FindScenarioFiles(dir, "[")
	assert.Error(t, err)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "tie.golden"),
		GoldenFilePath(filepath.Join("scenarios", "tie.yaml")))
}

func TestSnapshot_DigestStable(t *testing.T) {
	first, err := Run(mustParse(t, oneOverScenario))
	require.NoError(t, err)
	second, err := Run(mustParse(t, oneOverScenario))
	require.NoError(t, err)

	d1, err := Snapshot{ScenarioName: "one_over", Result: first}.Digest()
	require.NoError(t, err)
	d2, err := Snapshot{ScenarioName: "one_over", Result: second}.Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	d3, err := Snapshot{ScenarioName: "renamed", Result: second}.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}
