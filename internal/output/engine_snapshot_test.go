package output

import (
	"context"
	"testing"

	"github.com/rpgo/lifepath/internal/calculation"
	"github.com/rpgo/lifepath/internal/config"
	"github.com/rpgo/lifepath/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleReport(t *testing.T) *domain.ProjectionReport {
	t.Helper()
	parser := config.NewInputParser()
	withHome := parser.CreateExampleBundle()
	renting := parser.CreateExampleBundle()
	renting.Name = "Keep renting"
	var kept []domain.MilestoneSpec
	for _, m := range renting.Milestones {
		if m.Kind() != domain.MilestoneHomePurchase {
			kept = append(kept, m)
		}
	}
	renting.Milestones = kept

	eng := calculation.NewCalculationEngine()
	results, err := eng.RunBatch(context.Background(), []*domain.Bundle{withHome, renting})
	require.NoError(t, err)

	report := &domain.ProjectionReport{Assumptions: GenerateAssumptions(eng.Tables)}
	for i, b := range []*domain.Bundle{withHome, renting} {
		report.Scenarios = append(report.Scenarios, domain.ScenarioProjection{Name: b.Name, Result: results[i]})
	}
	return report
}

// TestEngineSnapshot runs the example bundle end to end through every formatter.
func TestEngineSnapshot(t *testing.T) {
	first := exampleReport(t)
	second := exampleReport(t)

	for _, name := range AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			a, err := Render(first, name)
			require.NoError(t, err)
			b, err := Render(second, name)
			require.NoError(t, err)
			assert.Equal(t, string(a), string(b), "formatter %s is not deterministic", name)
			assert.Contains(t, string(a), "Graduate in Austin")
			assert.Contains(t, string(a), "Keep renting")
		})
	}

	analyses := AnalyzeAll(first)
	require.Len(t, analyses, 2)
	for _, a := range analyses {
		assert.Equal(t, 22, a.StartAge)
		assert.Equal(t, 31, a.FinalAge)
		assert.True(t, a.TotalIncome.IsPositive())
	}
	assert.NotEmpty(t, AnalyzeScenarios(first).ScenarioName)
}
