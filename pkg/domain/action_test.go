package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPage = PageFunc(func(context.Context, io.Writer, map[string]any) error { return nil })
	testComp = ComponentFunc(func(context.Context, io.Writer, map[string]any) error { return nil })
)

func TestActionConfig_ViewPrecedence(t *testing.T) {
	transform := func(_ *Context, cfg map[string]any) map[string]any { return cfg }

	tests := []struct {
		name string
		cfg  ActionConfig
		want ViewKind
	}{
		{"nothing", ActionConfig{}, ViewNone},
		{"page only", ActionConfig{Page: testPage}, ViewPage},
		{"component only", ActionConfig{Component: &ComponentRef{Component: testComp}}, ViewComponent},
		{"both without transform prefers component", ActionConfig{Page: testPage, Component: &ComponentRef{Component: testComp}}, ViewComponent},
		{"both with transform prefers page", ActionConfig{Page: testPage, PageConfig: transform, Component: &ComponentRef{Component: testComp}}, ViewPage},
		{"empty component ref", ActionConfig{Component: &ComponentRef{}}, ViewNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.View())
		})
	}
}

func TestActionConfig_Configured(t *testing.T) {
	assert.False(t, (&ActionConfig{Name: "show"}).Configured())
	assert.True(t, (&ActionConfig{Service: &ServiceRef{Target: "posts", Method: "call"}}).Configured())
	assert.True(t, (&ActionConfig{Page: testPage}).Configured())
}

func TestActionConfig_ErrorTableFallback(t *testing.T) {
	notFound := NewFormatTable()
	anyTable := NewFormatTable()
	cfg := ActionConfig{OnError: map[ErrorCategory]*FormatTable{
		CategoryNotFound: notFound,
		CategoryAny:      anyTable,
	}}

	table, matched, ok := cfg.ErrorTable(CategoryNotFound)
	require.True(t, ok)
	assert.Same(t, notFound, table)
	assert.Equal(t, CategoryNotFound, matched)

	table, matched, ok = cfg.ErrorTable(CategoryInvalid)
	require.True(t, ok)
	assert.Same(t, anyTable, table)
	assert.Equal(t, CategoryAny, matched)

	_, _, ok = (&ActionConfig{}).ErrorTable(CategoryInvalid)
	assert.False(t, ok)
}

func TestActionConfig_CloneIsDeep(t *testing.T) {
	orig := ActionConfig{
		Name:      "create",
		Options:   map[string]any{"a": 1},
		Service:   &ServiceRef{Target: "posts", Method: "create"},
		Permit:    []string{"title"},
		OnSuccess: NewFormatTable(),
		Before:    []Callback{func(*Context) error { return nil }},
	}
	c := orig.Clone()
	orig.Options["a"] = 2
	orig.Service.Method = "other"
	orig.Permit[0] = "body"
	orig.OnSuccess.Set(FormatJSON, nil)
	orig.Before = append(orig.Before, nil)

	assert.Equal(t, 1, c.Options["a"])
	assert.Equal(t, "create", c.Service.Method)
	assert.Equal(t, []string{"title"}, c.Permit)
	assert.Zero(t, c.OnSuccess.Len())
	assert.Len(t, c.Before, 1)
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryNotFound, Categorize(fmt.Errorf("post 3: %w", ErrNotFound)))
	assert.Equal(t, CategoryInvalid, Categorize(ErrInvalid))
	assert.Equal(t, CategoryForbidden, Categorize(ErrForbidden))
	assert.Equal(t, CategoryUnauthenticated, Categorize(ErrUnauthenticated))
	assert.Equal(t, CategoryInternal, Categorize(errors.New("boom")))

	custom := WithCategory("rate_limited", errors.New("slow down"))
	assert.Equal(t, ErrorCategory("rate_limited"), Categorize(fmt.Errorf("wrap: %w", custom)))
	assert.Nil(t, WithCategory(CategoryInvalid, nil))

	assert.Equal(t, http.StatusNotFound, StatusFor(CategoryNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(CategoryInvalid))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("rate_limited"))
}

func TestDispatchError(t *testing.T) {
	cause := errors.New("db down")
	err := &DispatchError{Action: "show", Format: FormatJSON, Category: CategoryInternal, Err: ErrNoErrorHandler, Cause: cause}

	assert.ErrorIs(t, err, ErrNoErrorHandler)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `action "show" format "json" category "internal": no error handler for category (cause: db down)`, err.Error())
}
