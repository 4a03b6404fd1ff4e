package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBar(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer().Render("workCenterChart", barSpec("Work Centers"))
	require.NoError(t, err)
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "chart_workCenterChart")
	assert.Contains(t, html, "Backlog")
}

func TestRenderLineWithBounds(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer().Render("performanceTrend", Spec{
		Kind:   KindLine,
		Title:  "Performance Trend",
		Labels: []string{"Week 1", "Week 2"},
		Series: []Series{{Name: "Average Efficiency", Values: []float64{85, 87}}},
		YMin:   Float(80),
		YMax:   Float(100),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Average Efficiency")
}

func TestRenderDoughnut(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer().Render("issueDistribution", Spec{
		Kind:   KindDoughnut,
		Labels: []string{"No Issues", "Minor Issues", "Major Issues"},
		Series: []Series{{Name: "Issues", Values: []float64{70, 20, 10}}},
		Colors: []string{"rgba(75, 192, 192, 0.8)"},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Minor Issues")
	assert.Contains(t, html, "40%")
}

func TestRenderAssetsHost(t *testing.T) {
	t.Parallel()
	html, err := NewRenderer(WithAssetsHost("https://cdn.example.com/echarts/")).Render("c", barSpec("x"))
	require.NoError(t, err)
	assert.Contains(t, html, "https://cdn.example.com/echarts/")
}

func TestRenderUnsupportedKind(t *testing.T) {
	t.Parallel()
	_, err := NewRenderer().Render("c", Spec{Kind: "bubble"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
