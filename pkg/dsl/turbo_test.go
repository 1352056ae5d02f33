package dsl

import (
	"context"
	"io"
	"testing"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamBuilder_PreservesOrder(t *testing.T) {
	ops := NewStream().
		Append("list", Content{Partial: "x"}).
		Remove("banner").
		Refresh().
		Build()

	require.Len(t, ops, 3)
	actions := []domain.StreamAction{ops[0].Action, ops[1].Action, ops[2].Action}
	assert.Equal(t, []domain.StreamAction{domain.StreamAppend, domain.StreamRemove, domain.StreamRefresh}, actions)
	assert.Equal(t, "list", ops[0].Target)
	assert.Equal(t, "x", ops[0].Partial)
	assert.Equal(t, "banner", ops[1].Target)
	assert.False(t, ops[1].HasContent())
	assert.Empty(t, ops[2].Target)
}

func TestStreamBuilder_NoDeduplication(t *testing.T) {
	ops := NewStream().
		Update("count", Content{Partial: "c"}).
		Update("count", Content{Partial: "c"}).
		Prepend("list", Content{Partial: "row"}).
		Replace("item_1", Content{Partial: "row"}).
		Before("item_2", Content{Partial: "row"}).
		After("item_2", Content{Partial: "row"}).
		Build()

	require.Len(t, ops, 6)
	assert.Equal(t, domain.StreamUpdate, ops[0].Action)
	assert.Equal(t, domain.StreamUpdate, ops[1].Action)
	assert.Equal(t, domain.StreamPrepend, ops[2].Action)
	assert.Equal(t, domain.StreamReplace, ops[3].Action)
	assert.Equal(t, domain.StreamBefore, ops[4].Action)
	assert.Equal(t, domain.StreamAfter, ops[5].Action)
}

func TestStreamBuilder_Helpers(t *testing.T) {
	errs := map[string][]string{"title": {"can't be blank"}}
	ops := NewStream().
		Flash("notice", "Saved").
		FormErrors(errs, "").
		FormErrors(errs, "post_errors").
		Build()

	require.Len(t, ops, 3)
	assert.Equal(t, domain.StreamOp{
		Action:  domain.StreamUpdate,
		Target:  domain.FlashTarget,
		Partial: domain.FlashPartial,
		Locals:  map[string]any{"type": "notice", "message": "Saved"},
	}, ops[0])
	assert.Equal(t, domain.FormErrorsTarget, ops[1].Target)
	assert.Equal(t, domain.FormErrorsPartial, ops[1].Partial)
	assert.Equal(t, errs, ops[1].Locals["errors"])
	assert.Equal(t, "post_errors", ops[2].Target)
}

func TestStreamBuilder_BuildReturnsCopy(t *testing.T) {
	sb := NewStream().Update("a", Content{Partial: "p", Locals: map[string]any{"k": 1}})
	ops := sb.Build()
	sb.Remove("b")
	ops[0].Locals["k"] = 2

	again := sb.Build()
	require.Len(t, again, 2)
	assert.Equal(t, 1, again[0].Locals["k"])
	assert.Len(t, ops, 1)
}

func TestFrameBuilder_LastDescriptorWins(t *testing.T) {
	comp := domain.ComponentFunc(func(context.Context, io.Writer, map[string]any) error { return nil })

	frame := NewFrame().
		Component(comp, nil).
		Partial("bar", map[string]any{"x": 1}).
		Build()

	assert.Equal(t, domain.FramePartial, frame.Content.Kind)
	assert.Equal(t, "bar", frame.Content.Partial)
	assert.Nil(t, frame.Content.Component)
	assert.False(t, frame.Layout, "layout defaults to false")
}

func TestFrameBuilder_Layout(t *testing.T) {
	frame := NewFrame().RenderPage().Layout(true).Build()
	assert.Equal(t, domain.FramePage, frame.Content.Kind)
	assert.True(t, frame.Layout)

	frame = NewFrame().Layout(true).Layout(false).Build()
	assert.False(t, frame.Layout)
	assert.True(t, frame.IsZero())
}

func TestActionBuilder_TurboFrameConfigure(t *testing.T) {
	cfg := NewAction("edit").
		TurboFrame("post_form", func(f *FrameBuilder) {
			f.Partial("posts/form", nil).Layout(true)
		}).
		Build()

	assert.Equal(t, "post_form", cfg.TurboFrame)
	assert.Equal(t, domain.FramePartial, cfg.Frame.Content.Kind)
	assert.True(t, cfg.Frame.Layout)
}

func TestResponseBuilder_LastFormatWins(t *testing.T) {
	var log []string
	table := NewResponse().
		JSON(record(&log, "A")).
		HTML(record(&log, "html")).
		JSON(record(&log, "B")).
		CSV(record(&log, "csv")).
		Format("ics", record(&log, "ics")).
		Build()

	cb, ok := table.Lookup(domain.FormatJSON)
	require.True(t, ok)
	assert.Equal(t, "B", runTagged(t, cb, &log))
	assert.Equal(t, []domain.Format{domain.FormatJSON, domain.FormatHTML, domain.FormatCSV, "ics"}, table.Formats())
	assert.True(t, table.Frozen())
}

func TestResponseBuilder_Streams(t *testing.T) {
	table := NewResponse().
		Streams(func(s *StreamBuilder) { s.Remove("row_1") }).
		Build()

	_, ok := table.Lookup(domain.FormatTurboStream)
	assert.True(t, ok)
}
