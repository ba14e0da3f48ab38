// internal/cli/menu.go
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libinventory/internal/catalog"
	"libinventory/internal/circulation"
)

// maxLineBytes bounds a single input line. Longer lines are discarded.
const maxLineBytes = 64 * 1024

var (
	errInputClosed = errors.New("input closed")
	errLineTooLong = fmt.Errorf("input line longer than %d bytes", maxLineBytes)
)

// Menu is the interactive front end of the inventory. Each command maps to
// one catalog or circulation operation.
type Menu struct {
	inventory catalog.Service
	desk      circulation.Service
	in        *bufio.Reader
	out       io.Writer
	log       *slog.Logger
	tracer    trace.Tracer
}

// NewMenu creates a menu reading commands from in and writing to out.
func NewMenu(inventory catalog.Service, desk circulation.Service, in io.Reader, out io.Writer, log *slog.Logger) *Menu {
	return &Menu{
		inventory: inventory,
		desk:      desk,
		in:        bufio.NewReader(in),
		out:       out,
		log:       log,
		tracer:    otel.Tracer("libinventory/cli"),
	}
}

// Run reads commands until the user exits, the input ends or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printMenu()
		choice, err := m.prompt("Enter your choice: ")
		if errors.Is(err, errLineTooLong) {
			m.log.WarnContext(ctx, "discarded overlong menu choice", "limit", maxLineBytes)
			m.println("Something went wrong!")
			continue
		}
		if err != nil {
			m.println("Exiting Library Inventory Manager. Goodbye!")
			return nil
		}

		if m.dispatch(ctx, choice) {
			return nil
		}
	}
}

func (m *Menu) printMenu() {
	m.println("")
	m.println("==== Library Inventory Manager ====")
	m.println("1. Add Book")
	m.println("2. Issue Book")
	m.println("3. Return Book")
	m.println("4. View All Books")
	m.println("5. Search Book")
	m.println("6. Exit")
}

// dispatch runs one command and reports whether the loop should stop. A
// failing or panicking command never ends the loop.
func (m *Menu) dispatch(ctx context.Context, choice string) (exit bool) {
	commandID := uuid.NewString()
	log := m.log.With("command_id", commandID)

	ctx, span := m.tracer.Start(ctx, "cli.command",
		trace.WithAttributes(
			attribute.String("command.id", commandID),
			attribute.String("command.choice", choice),
		),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "runtime error", "choice", choice, "panic", r)
			m.println("Something went wrong!")
			exit = false
		}
	}()

	var err error
	switch choice {
	case "1":
		err = m.addBook(ctx)
	case "2":
		err = m.issueBook(ctx)
	case "3":
		err = m.returnBook(ctx)
	case "4":
		m.listBooks()
	case "5":
		err = m.searchBooks()
	case "6":
		m.println("Exiting Library Inventory Manager. Goodbye!")
		return true
	default:
		m.println("Invalid choice. Please try again.")
	}

	switch {
	case err == nil:
	case errors.Is(err, errInputClosed):
		m.println("Exiting Library Inventory Manager. Goodbye!")
		return true
	case errors.Is(err, errLineTooLong):
		log.WarnContext(ctx, "command aborted on overlong input", "choice", choice, "limit", maxLineBytes)
		m.println("Something went wrong!")
	case errors.Is(err, catalog.ErrSaveFailed):
		log.WarnContext(ctx, "command applied but not saved", "choice", choice, "error", err)
		m.printf("Warning: changes could not be saved: %v\n", err)
	default:
		log.ErrorContext(ctx, "runtime error", "choice", choice, "error", err)
		m.println("Something went wrong!")
	}
	return false
}

func (m *Menu) addBook(ctx context.Context) error {
	title, err := m.prompt("Enter book title: ")
	if err != nil {
		return err
	}
	author, err := m.prompt("Enter author name: ")
	if err != nil {
		return err
	}
	isbn, err := m.prompt("Enter ISBN: ")
	if err != nil {
		return err
	}

	saveErr := m.inventory.Add(ctx, catalog.NewBook(title, author, isbn))
	m.printf("Book '%s' added successfully.\n", title)
	return saveErr
}

func (m *Menu) issueBook(ctx context.Context) error {
	isbn, err := m.prompt("Enter ISBN of book to issue: ")
	if err != nil {
		return err
	}

	result, book, saveErr := m.desk.Issue(ctx, isbn)
	switch result {
	case circulation.ResultIssued:
		m.printf("Book '%s' issued successfully.\n", book.Title)
	case circulation.ResultAlreadyIssued:
		m.printf("Book '%s' is already issued.\n", book.Title)
	default:
		m.println("Book not found.")
	}
	return saveErr
}

func (m *Menu) returnBook(ctx context.Context) error {
	isbn, err := m.prompt("Enter ISBN of book to return: ")
	if err != nil {
		return err
	}

	result, book, saveErr := m.desk.Return(ctx, isbn)
	if result == circulation.ResultReturned {
		m.printf("Book '%s' returned successfully.\n", book.Title)
	} else {
		m.println("Book not found.")
	}
	return saveErr
}

func (m *Menu) listBooks() {
	lines := m.inventory.ListAll()
	if len(lines) == 0 {
		m.println("No books in the inventory.")
		return
	}
	for _, line := range lines {
		m.println(line)
	}
}

func (m *Menu) searchBooks() error {
	by, err := m.prompt("Search by (1) Title or (2) ISBN? ")
	if err != nil {
		return err
	}

	var results []*catalog.Book
	switch by {
	case "1":
		title, err := m.prompt("Enter title to search: ")
		if err != nil {
			return err
		}
		results = m.inventory.SearchByTitle(title)
	case "2":
		isbn, err := m.prompt("Enter ISBN to search: ")
		if err != nil {
			return err
		}
		if book, ok := m.inventory.SearchByISBN(isbn); ok {
			results = append(results, book)
		}
	default:
		m.println("Invalid choice.")
		return nil
	}

	if len(results) == 0 {
		m.println("No matching books found.")
		return nil
	}
	for _, book := range results {
		m.println(book.String())
	}
	return nil
}

// prompt writes label and returns the next input line without surrounding
// whitespace.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	return m.readLine()
}

// readLine reads one line of at most maxLineBytes. An overlong line is
// consumed up to its newline and reported as errLineTooLong, so the next
// read starts on the following line.
func (m *Menu) readLine() (string, error) {
	var (
		line    []byte
		tooLong bool
		read    bool
	)
	for {
		chunk, isPrefix, err := m.in.ReadLine()
		if err != nil {
			if read {
				break
			}
			if errors.Is(err, io.EOF) {
				return "", errInputClosed
			}
			return "", fmt.Errorf("%w: %w", errInputClosed, err)
		}
		read = true

		if !tooLong && len(line)+len(chunk) > maxLineBytes {
			tooLong = true
			line = nil
		}
		if !tooLong {
			line = append(line, chunk...)
		}
		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", errLineTooLong
	}
	return strings.TrimSpace(string(line)), nil
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
