package cli_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libinventory/internal/catalog"
	"libinventory/internal/circulation"
	"libinventory/internal/cli"
	"libinventory/internal/storage"
	"libinventory/internal/testutil"
)

type fixture struct {
	path      string
	inventory *catalog.Inventory
	desk      circulation.Service
	logs      *testutil.LogHandlerSpy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logs := testutil.NewLogHandlerSpy()
	path := filepath.Join(t.TempDir(), "catalog.json")

	inv, err := catalog.Open(context.Background(), storage.NewFileStore(path), catalog.WithLogger(logs.Logger()))
	require.NoError(t, err)
	desk, err := circulation.NewService(inv, circulation.WithLogger(logs.Logger()))
	require.NoError(t, err)

	return &fixture{path: path, inventory: inv, desk: desk, logs: logs}
}

func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	return runMenu(t, f.inventory, f.desk, f.logs, lines...)
}

func runMenu(t *testing.T, inv catalog.Service, desk circulation.Service, logs *testutil.LogHandlerSpy, lines ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer

	err := cli.NewMenu(inv, desk, in, &out, logs.Logger()).Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func TestLendingScenario(t *testing.T) {
	f := newFixture(t)

	out := f.run(t,
		"1", "Dune", "Herbert", "111",
		"2", "111",
		"2", "111",
		"3", "111",
		"5", "1", "dun",
		"6",
	)

	assert.Contains(t, out, "Book 'Dune' added successfully.")
	assert.Contains(t, out, "Book 'Dune' issued successfully.")
	assert.Contains(t, out, "Book 'Dune' is already issued.")
	assert.Contains(t, out, "Book 'Dune' returned successfully.")
	assert.Contains(t, out, "Title: Dune, Author: Herbert, ISBN: 111, Status: available")
	assert.Contains(t, out, "Exiting Library Inventory Manager. Goodbye!")

	book, ok := f.inventory.SearchByISBN("111")
	require.True(t, ok)
	assert.Equal(t, catalog.StatusAvailable, book.Status())
}

func TestIssueStateIsPersisted(t *testing.T) {
	f := newFixture(t)

	f.run(t, "1", "Dune", "Herbert", "111", "2", "111", "6")

	data, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title": "Dune", "author": "Herbert", "isbn": "111", "status": "issued"}]`, string(data))
}

func TestListEmptyAndFilled(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "4", "1", "Emma", "Austen", "222", "4", "6")

	assert.Contains(t, out, "No books in the inventory.")
	assert.Contains(t, out, "Title: Emma, Author: Austen, ISBN: 222, Status: available")
}

func TestUnknownISBN(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "2", "999", "3", "999", "5", "2", "999", "6")

	assert.Equal(t, 2, strings.Count(out, "Book not found."))
	assert.Contains(t, out, "No matching books found.")
}

func TestSearchByISBN(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "1", "Dune", "Herbert", "111", "5", "2", "111", "6")

	assert.Contains(t, out, "Title: Dune, Author: Herbert, ISBN: 111, Status: available")
}

func TestInvalidChoices(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "9", "5", "3", "6")

	assert.Contains(t, out, "Invalid choice. Please try again.")
	assert.Contains(t, out, "Invalid choice.\n")
}

func TestInputEndsLoop(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "1", "Dune")

	assert.Contains(t, out, "Exiting Library Inventory Manager. Goodbye!")
	assert.Empty(t, f.inventory.Books(), "an interrupted add adds nothing")
}

func TestOverlongLineDoesNotEndLoop(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("x", 70*1024)

	out := f.run(t,
		"1", long,
		"4",
		"1", "Dune", "Herbert", "222",
		"6",
	)

	assert.Contains(t, out, "Something went wrong!")
	assert.Contains(t, out, "No books in the inventory.")
	assert.Contains(t, out, "Book 'Dune' added successfully.")
	assert.Equal(t, 1, strings.Count(out, "Exiting Library Inventory Manager. Goodbye!"))

	books := f.inventory.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Contains(t, f.logs.Messages(slog.LevelWarn), "command aborted on overlong input")
}

func TestOverlongChoiceIsDiscarded(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, strings.Repeat("1", 70*1024), "1", "Dune", "Herbert", "111", "6")

	assert.Contains(t, out, "Something went wrong!")
	assert.Contains(t, out, "Book 'Dune' added successfully.")
	assert.Len(t, f.inventory.Books(), 1)
}

func TestLastLineWithoutNewline(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer

	err := cli.NewMenu(f.inventory, f.desk, strings.NewReader("1\nDune\nHerbert\n111\n4"), &out, f.logs.Logger()).Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Title: Dune, Author: Herbert, ISBN: 111, Status: available")
	assert.Contains(t, out.String(), "Exiting Library Inventory Manager. Goodbye!")
}

func TestSaveFailureIsAWarning(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.path))
	require.NoError(t, os.MkdirAll(filepath.Join(f.path, "blocker"), 0o755))

	out := f.run(t, "1", "Dune", "Herbert", "111", "4", "6")

	assert.Contains(t, out, "Book 'Dune' added successfully.")
	assert.Contains(t, out, "Warning: changes could not be saved:")
	assert.Contains(t, out, "Title: Dune, Author: Herbert, ISBN: 111, Status: available")
}

type panickingCatalog struct {
	catalog.Service
}

func (panickingCatalog) ListAll() []string {
	panic("boom")
}

func TestPanicDoesNotEndLoop(t *testing.T) {
	f := newFixture(t)
	logs := testutil.NewLogHandlerSpy()

	out := runMenu(t, panickingCatalog{Service: f.inventory}, f.desk, logs, "4", "1", "Dune", "Herbert", "111", "6")

	assert.Contains(t, out, "Something went wrong!")
	assert.Contains(t, out, "Book 'Dune' added successfully.")
	assert.Contains(t, logs.Messages(slog.LevelError), "runtime error")
}
