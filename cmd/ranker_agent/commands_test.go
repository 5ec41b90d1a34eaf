package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ranker/internal/ablation"
	"github.com/jonathan/resume-ranker/internal/pipeline"
	"github.com/jonathan/resume-ranker/internal/types"
)

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)
	out := filepath.Join(dir, "nested", "scores.json")

	err := executeCommand(t, "score", "--candidates", in, "--out", out, "--validate-schema")
	require.NoError(t, err)

	var scores map[string]types.CandidateScore
	readJSON(t, out, &scores)
	require.Len(t, scores, 3)
	assert.Greater(t, scores["alice"].FinalScore, scores["bob"].FinalScore)
	assert.Greater(t, scores["bob"].FinalScore, scores["carol"].FinalScore)
}

func TestScoreCommand_MissingFlags(t *testing.T) {
	err := executeCommand(t, "score", "--out", filepath.Join(t.TempDir(), "scores.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "candidates" not set`)
}

func TestScoreCommand_InvalidCandidates(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", `{ invalid json }`)

	err := executeCommand(t, "score", "--candidates", in, "--out", filepath.Join(dir, "scores.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load candidates")
}

func TestRankMetricsCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)
	ref := writeTestFile(t, dir, "reference.json", testReference)
	scores := filepath.Join(dir, "scores.json")
	out := filepath.Join(dir, "ranking_metrics.json")

	require.NoError(t, executeCommand(t, "score", "-c", in, "-o", scores))
	require.NoError(t, executeCommand(t, "rank-metrics", "--system", scores, "--reference", ref, "--out", out))

	var result types.RankingMetricsResult
	readJSON(t, out, &result)
	assert.True(t, result.OK())
	assert.Equal(t, 3, result.CommonCount)
	require.NotNil(t, result.KendallTau)
	assert.Equal(t, 1.0, result.KendallTau.Tau)
}

func TestRankMetricsCommand_InsufficientOverlap(t *testing.T) {
	dir := t.TempDir()
	system := writeTestFile(t, dir, "system.json", `{"alice": 0.8, "zed": 0.2}`)
	ref := writeTestFile(t, dir, "reference.json", testReference)
	out := filepath.Join(dir, "ranking_metrics.json")

	require.NoError(t, executeCommand(t, "rank-metrics", "-s", system, "-R", ref, "-o", out))

	var result types.RankingMetricsResult
	readJSON(t, out, &result)
	assert.False(t, result.OK())
	assert.Equal(t, 1, result.CommonCount)
}

func TestExplainCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)
	out := filepath.Join(dir, "explanations.json")

	require.NoError(t, executeCommand(t, "explain", "-c", in, "-o", out, "--top-n", "2"))

	var artifact pipeline.ExplanationsArtifact
	readJSON(t, out, &artifact)
	assert.Len(t, artifact.Evidence, 3)
	require.Len(t, artifact.Comparisons, 1)
	assert.Equal(t, "alice", artifact.Comparisons[0].CandidateA)
	assert.Equal(t, "bob", artifact.Comparisons[0].CandidateB)
}

func TestExplainCommand_TopNTooSmall(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)

	err := executeCommand(t, "explain", "-c", in, "-o", filepath.Join(dir, "x.json"), "--top-n", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--top-n must be at least 2")
}

func TestVerifyCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)
	out := filepath.Join(dir, "faithfulness.json")

	require.NoError(t, executeCommand(t, "verify", "-c", in, "-o", out, "--max-comparisons", "2"))

	var artifact pipeline.FaithfulnessArtifact
	readJSON(t, out, &artifact)
	assert.Len(t, artifact.Reports, 2)
	assert.Equal(t, 2, artifact.Global.TotalComparisons)
	for _, r := range artifact.Reports {
		assert.Len(t, r.Checks, 5)
	}
}

func TestAblateCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)
	ref := writeTestFile(t, dir, "reference.json", testReference)
	out := filepath.Join(dir, "ablation_studies.json")

	require.NoError(t, executeCommand(t, "ablate", "-c", in, "-R", ref, "-o", out, "--ablations", "no_coherence, no_seniority", "--workers", "2"))

	var artifact pipeline.AblationArtifact
	readJSON(t, out, &artifact)
	assert.Len(t, artifact.Results, 3)
	assert.Contains(t, artifact.Results, ablation.BaselineID)
	assert.Len(t, artifact.Report.Comparisons, 2)
	assert.NotEmpty(t, artifact.Report.Summary)
}

func TestAblateCommand_UnknownAblation(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)
	ref := writeTestFile(t, dir, "reference.json", testReference)

	err := executeCommand(t, "ablate", "-c", in, "-R", ref, "-o", filepath.Join(dir, "a.json"), "-a", "no_such_thing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run ablations")
}

func TestAblationsCommand_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "configs")

	require.NoError(t, executeCommand(t, "ablations", "--export-dir", dir))

	for _, id := range ablation.Names() {
		assert.FileExists(t, filepath.Join(dir, "config_"+id+".json"))
	}
}

func TestEvaluateCommand_ConfigAndOverrides(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)
	ref := writeTestFile(t, dir, "reference.json", testReference)
	configPath := writeTestFile(t, dir, "config.json", `{
		"candidates": "`+filepath.ToSlash(in)+`",
		"reference": "`+filepath.ToSlash(ref)+`",
		"output": "`+filepath.ToSlash(filepath.Join(dir, "ignored"))+`",
		"top_n": 2,
		"skip_ablations": true
	}`)
	outDir := filepath.Join(dir, "run")
	metrics := filepath.Join(dir, "ranker.prom")

	require.NoError(t, executeCommand(t, "evaluate", "--config", configPath, "--out", outDir, "--metrics-out", metrics))

	assert.NoDirExists(t, filepath.Join(dir, "ignored"))
	for _, name := range []string{
		pipeline.FileScores, pipeline.FileRankings, pipeline.FileExplanations,
		pipeline.FileRankingMetrics, pipeline.FileFaithfulness, pipeline.FileRunSummary,
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, pipeline.FileAblation))
	assert.FileExists(t, metrics)

	var explanations pipeline.ExplanationsArtifact
	readJSON(t, filepath.Join(outDir, pipeline.FileExplanations), &explanations)
	assert.Len(t, explanations.Comparisons, 1)
}

func TestEvaluateCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeTestFile(t, dir, "candidates.json", testCandidates)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing candidates",
			args:    []string{"evaluate", "--out", dir},
			wantErr: "--candidates must be provided",
		},
		{
			name:    "negative workers",
			args:    []string{"evaluate", "-c", in, "--workers", "-1"},
			wantErr: "'workers' must be non-negative",
		},
		{
			name:    "missing reference file",
			args:    []string{"evaluate", "-c", in, "-R", filepath.Join(dir, "missing.json")},
			wantErr: "reference file not found",
		},
		{
			name:    "bad config file",
			args:    []string{"evaluate", "--config", filepath.Join(dir, "nope.json")},
			wantErr: "failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
