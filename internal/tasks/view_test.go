package tasks

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, p Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewView(p.Catalog).Render(&buf, p))
	return buf.String()
}

func TestView_EmptyCollectionShowsPlaceholder(t *testing.T) {
	out := render(t, Page{Catalog: DefaultCatalog()})

	assert.Contains(t, out, "No hay tareas creadas aún.")
	assert.NotContains(t, out, "<table")
	assert.NotContains(t, out, "<tr")
}

func TestView_RowsInCollectionOrder(t *testing.T) {
	tasks := []Task{
		{ID: "id-2", Draft: sampleDraft("Beta")},
		{ID: "id-1", Draft: sampleDraft("Alpha")},
	}
	tasks[1].Prioridad = "Baja"

	out := render(t, Page{Catalog: DefaultCatalog(), Tasks: tasks})

	assert.NotContains(t, out, "No hay tareas creadas aún.")
	assert.Equal(t, 2, strings.Count(out, "<tr data-id="))
	assert.Less(t, strings.Index(out, `data-id="id-2"`), strings.Index(out, `data-id="id-1"`))
	assert.Contains(t, out, `action="/tasks/id-1/delete"`)
	assert.Contains(t, out, `action="/tasks/id-2/delete"`)
	assert.Contains(t, out, "priority-high")
	assert.Contains(t, out, "priority-low")
	assert.Contains(t, out, "1/1/2024")
}

func TestView_AlertAndDraftValues(t *testing.T) {
	draft := sampleDraft("Alpha")
	draft.Resumen = ""

	out := render(t, Page{Catalog: DefaultCatalog(), Draft: draft, Alert: MsgRequiredFields})

	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, MsgRequiredFields)
	assert.Contains(t, out, `value="Alpha"`)
	assert.Contains(t, out, `<option value="Bug" selected>`)
	assert.Contains(t, out, `<option value="Alta" selected>`)
}

func TestView_EscapesUserInput(t *testing.T) {
	d := sampleDraft("<script>alert(1)</script>")
	out := render(t, Page{Catalog: DefaultCatalog(), Tasks: []Task{{ID: "x", Draft: d}}})

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestPriorityCategory(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, PriorityHigh, c.PriorityCategory("Alta"))
	assert.Equal(t, PriorityMedium, c.PriorityCategory("Media"))
	assert.Equal(t, PriorityLow, c.PriorityCategory("Baja"))
	assert.Equal(t, PriorityLow, c.PriorityCategory("desconocida"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "5/3/2024", formatDate("2024-03-05"))
	assert.Equal(t, "ayer", formatDate("ayer"))
}
