package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ranker/internal/ablation"
	"github.com/jonathan/resume-ranker/internal/pipeline/steps"
	"github.com/jonathan/resume-ranker/internal/types"
)

const candidatesJSON = `[
	{
		"id": "alice",
		"name": "Alice",
		"education": [{"degree": "PhD", "field": "Computer Science", "university": "MIT"}],
		"experience": [{"title": "Senior Engineer", "org": "Acme", "start": "2018", "end": "2024"}]
	},
	{
		"id": "bob",
		"name": "Bob",
		"education": [{"degree": "BS", "field": "History", "university": "State College"}]
	},
	{"id": "carol", "name": "Carol"}
]`

const referenceJSON = `{"alice": 0.9, "bob": 0.5, "carol": 0.1}`

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type eventLog struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (l *eventLog) record(e ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func TestRunPipeline_FullRun(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	metricsPath := filepath.Join(dir, "ranker.prom")
	var out bytes.Buffer
	events := &eventLog{}

	result, err := RunPipeline(context.Background(), RunOptions{
		CandidatesPath:  writeFixture(t, dir, "candidates.json", candidatesJSON),
		ReferencePath:   writeFixture(t, dir, "reference.json", referenceJSON),
		OutputDir:       outDir,
		MaxFaithfulness: 2,
		Ablations:       []string{"no_coherence"},
		Workers:         2,
		ValidateSchema:  true,
		MetricsOut:      metricsPath,
		Verbose:         true,
		Clock:           fixedClock,
		Out:             &out,
		OnProgress:      events.record,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.Scores, 3)
	require.Len(t, result.Rankings, 3)
	assert.Equal(t, "alice", result.Rankings[0].CandidateID)
	assert.Equal(t, "carol", result.Rankings[2].CandidateID)

	require.NotNil(t, result.Evaluation)
	require.NotNil(t, result.Evaluation.RankingMetrics)
	assert.True(t, result.Evaluation.RankingMetrics.OK())
	assert.Equal(t, 1.0, result.Evaluation.RankingMetrics.KendallTau.Tau)
	assert.Len(t, result.Evaluation.AblationRuns, 2)
	assert.Contains(t, result.Evaluation.AblationRuns, ablation.BaselineID)
	require.NotNil(t, result.Evaluation.AblationReport)
	assert.Len(t, result.Evaluation.AblationReport.Comparisons, 1)

	require.NotNil(t, result.Explanations)
	assert.Len(t, result.Explanations.Evidence, 3)
	assert.Len(t, result.Explanations.Comparisons, 3)
	assert.Len(t, result.Explanations.Reports, 2)
	assert.Equal(t, 2, result.Explanations.Faithfulness.TotalComparisons)

	for _, s := range result.Steps {
		assert.Equal(t, steps.StatusCompleted, s.Status, s.Step)
	}

	for _, name := range []string{
		FileScores, FileRankings, FileExplanations, FileRankingMetrics,
		FileFaithfulness, FileAblation, FileRunSummary,
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	data, err := os.ReadFile(filepath.Join(outDir, FileScores))
	require.NoError(t, err)
	var scores map[string]types.CandidateScore
	require.NoError(t, json.Unmarshal(data, &scores))
	assert.Contains(t, scores, "bob")

	data, err = os.ReadFile(filepath.Join(outDir, FileRunSummary))
	require.NoError(t, err)
	var summary RunSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, result.RunID, summary.RunID)
	assert.Equal(t, 3, summary.Candidates)
	assert.Len(t, summary.Steps, steps.Total())

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "ranker_candidates_scored_total")
	assert.Contains(t, string(prom), `ranker_ablation_overall_impact{ablation="no_coherence"}`)

	require.NotEmpty(t, events.events)
	for _, e := range events.events {
		assert.Equal(t, result.RunID, e.RunID)
		assert.NotEmpty(t, e.Category, e.Step)
	}

	assert.Contains(t, out.String(), "Step 1/11: Loading candidate records")
	assert.Contains(t, out.String(), "[Evaluation]  Step")
	assert.Contains(t, out.String(), "[Explanation] Explanation branch complete.")
	assert.Contains(t, out.String(), "RANKING METRICS")
	assert.Contains(t, out.String(), "ABLATION")
}

func TestRunPipeline_NoReference(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	result, err := RunPipeline(context.Background(), RunOptions{
		CandidatesPath: writeFixture(t, dir, "candidates.json", candidatesJSON),
		OutputDir:      outDir,
		Clock:          fixedClock,
		Out:            &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.Nil(t, result.Reference)
	assert.Nil(t, result.Evaluation.RankingMetrics)
	assert.Nil(t, result.Evaluation.AblationReport)
	assert.Len(t, result.Explanations.Comparisons, 3)

	status := map[string]string{}
	for _, s := range result.Steps {
		status[s.Step] = s.Status
	}
	assert.Equal(t, steps.StatusSkipped, status[steps.StepLoadReference])
	assert.Equal(t, steps.StatusSkipped, status[steps.StepRankingMetrics])
	assert.Equal(t, steps.StatusSkipped, status[steps.StepRunAblations])
	assert.Equal(t, steps.StatusCompleted, status[steps.StepVerifyFaithful])

	assert.FileExists(t, filepath.Join(outDir, FileScores))
	assert.NoFileExists(t, filepath.Join(outDir, FileRankingMetrics))
	assert.NoFileExists(t, filepath.Join(outDir, FileAblation))
}

func TestRunPipeline_ReferenceCandidates(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "candidates.json", candidatesJSON)

	result, err := RunPipeline(context.Background(), RunOptions{
		CandidatesPath:          path,
		ReferenceCandidatesPath: path,
		SkipAblations:           true,
		Clock:                   fixedClock,
		Out:                     &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.Len(t, result.Reference, 3)
	require.NotNil(t, result.Evaluation.RankingMetrics)
	assert.Equal(t, 1.0, result.Evaluation.RankingMetrics.KendallTau.Tau)
	assert.Nil(t, result.Evaluation.AblationRuns)
}

func TestRunPipeline_Errors(t *testing.T) {
	dir := t.TempDir()
	valid := writeFixture(t, dir, "candidates.json", candidatesJSON)

	tests := []struct {
		name    string
		opts    RunOptions
		wantErr string
	}{
		{
			name:    "missing candidates path",
			opts:    RunOptions{},
			wantErr: "candidates path is required",
		},
		{
			name:    "both reference sources",
			opts:    RunOptions{CandidatesPath: valid, ReferencePath: valid, ReferenceCandidatesPath: valid},
			wantErr: "mutually exclusive",
		},
		{
			name:    "unreadable candidates",
			opts:    RunOptions{CandidatesPath: filepath.Join(dir, "missing.json")},
			wantErr: "loading candidates failed",
		},
		{
			name:    "bad reference",
			opts:    RunOptions{CandidatesPath: valid, ReferencePath: writeFixture(t, dir, "empty.json", `{}`)},
			wantErr: "loading reference scores failed",
		},
		{
			name:    "unknown ablation",
			opts:    RunOptions{CandidatesPath: valid, ReferencePath: writeFixture(t, dir, "ref.json", referenceJSON), Ablations: []string{"no_such_thing"}},
			wantErr: "running ablations failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Out = &bytes.Buffer{}
			tt.opts.Clock = fixedClock
			result, err := RunPipeline(context.Background(), tt.opts)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunPipeline_Cancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunPipeline(ctx, RunOptions{
		CandidatesPath: writeFixture(t, dir, "candidates.json", candidatesJSON),
		Clock:          fixedClock,
		Out:            &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	written, err := WriteArtifacts(dir, &Result{
		Scores:   []types.CandidateScore{{CandidateID: "a", FinalScore: 0.5}},
		Rankings: []types.RankedCandidate{{Rank: 1, CandidateID: "a", FinalScore: 0.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, FileScores),
		filepath.Join(dir, FileRankings),
	}, written)

	data, err := os.ReadFile(filepath.Join(dir, FileRankings))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"candidate_id": "a"`)
}

func TestSyncWriter_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	w := &syncWriter{w: &buf}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := w.Write([]byte("line\n"))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8*100*len("line\n"), buf.Len())
}

func TestWithBaseline(t *testing.T) {
	assert.Nil(t, withBaseline(nil))
	assert.Equal(t, []string{ablation.BaselineID, "no_coherence"}, withBaseline([]string{"no_coherence"}))
	assert.Equal(t, []string{ablation.BaselineID, "no_seniority"}, withBaseline([]string{"no_seniority", ablation.BaselineID}))
}
