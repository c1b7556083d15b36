package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

// Menu is the interactive console client of the catalog service.
type Menu struct {
	svc CatalogService
	in  *bufio.Scanner
	out io.Writer
	log *zap.Logger
}

func NewMenu(svc CatalogService, in io.Reader, out io.Writer, log *zap.Logger) *Menu {
	return &Menu{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
		log: log.Named("menu"),
	}
}

const menuText = `
==== Book Catalog ====
 1. List all books           11. Books by author
 2. Get book by id           12. Paged listing
 3. Add book                 13. Cached catalog
 4. Update book              14. List authors
 5. Delete book              15. Add author
 6. Search books             16. Delete author
 7. Books by price range     17. List genres
 8. Books by year            18. Add genre
 9. Books by genre           19. Delete genre
10. Books published after    20. Transfer ownership
21. Apply genre discount     22. Import books
23. Remove books             24. Statistics
25. Total catalog value       0. Exit
`

// Run loops over the menu until the user exits or ctx is canceled.
// Cancellation is the normal shutdown path (Ctrl-C), not a fault.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(m.out, "bye")
			return nil
		}
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt("choice")
		if !ok {
			return nil
		}
		if choice == "0" {
			fmt.Fprintln(m.out, "bye")
			return nil
		}
		if err := m.dispatch(ctx, choice); err != nil {
			m.report(err)
		}
	}
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return m.printBooks(m.svc.GetAllBooks(ctx))
	case "2":
		id, err := m.promptInt64("book id")
		if err != nil {
			return err
		}
		b, err := m.svc.GetBookByID(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(m.out, b.Display())
		return nil
	case "3":
		b, err := m.promptBook()
		if err != nil {
			return err
		}
		id, err := m.svc.AddBook(ctx, b)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "added book %d\n", id)
		return nil
	case "4":
		id, err := m.promptInt64("book id")
		if err != nil {
			return err
		}
		b, err := m.promptBook()
		if err != nil {
			return err
		}
		b.ID = id
		if err := m.svc.UpdateBook(ctx, b); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "updated")
		return nil
	case "5":
		id, err := m.promptInt64("book id")
		if err != nil {
			return err
		}
		if err := m.svc.DeleteBook(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "deleted")
		return nil
	case "6":
		term, _ := m.prompt("search term")
		return m.printBooks(m.svc.SearchBooks(ctx, term))
	case "7":
		min, err := m.promptDecimal("min price")
		if err != nil {
			return err
		}
		max, err := m.promptDecimal("max price")
		if err != nil {
			return err
		}
		return m.printBooks(m.svc.GetBooksByPriceRange(ctx, min, max))
	case "8":
		year, err := m.promptInt("year")
		if err != nil {
			return err
		}
		return m.printBooks(m.svc.GetBooksByYear(ctx, year))
	case "9":
		genre, _ := m.prompt("genre name")
		return m.printBooks(m.svc.GetBooksByGenre(ctx, genre))
	case "10":
		year, err := m.promptInt("published after year")
		if err != nil {
			return err
		}
		return m.printBooks(m.svc.GetBooksPublishedAfter(ctx, year))
	case "11":
		id, err := m.promptInt64("author id")
		if err != nil {
			return err
		}
		return m.printBooks(m.svc.GetBooksByAuthor(ctx, id))
	case "12":
		page, err := m.promptInt("page")
		if err != nil {
			return err
		}
		size, err := m.promptInt("page size")
		if err != nil {
			return err
		}
		sortKey, _ := m.prompt("sort key (title/price/year/author)")
		p, err := m.svc.GetBooksPage(ctx, page, size, sortKey)
		if err != nil {
			return err
		}
		for _, b := range p.Items {
			fmt.Fprintln(m.out, b.Display())
		}
		fmt.Fprintf(m.out, "page %d/%d, %d books total\n", p.Page, p.TotalPages, p.TotalCount)
		return nil
	case "13":
		return m.printBooks(m.svc.GetCachedBooks(ctx))
	case "14":
		authors, err := m.svc.GetAuthors(ctx)
		if err != nil {
			return err
		}
		for _, a := range authors {
			fmt.Fprintf(m.out, "%d: %s\n", a.ID, a.FullName())
		}
		return nil
	case "15":
		first, _ := m.prompt("first name")
		last, _ := m.prompt("last name")
		id, err := m.svc.AddAuthor(ctx, model.AuthorInput{FirstName: first, LastName: last})
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "added author %d\n", id)
		return nil
	case "16":
		id, err := m.promptInt64("author id")
		if err != nil {
			return err
		}
		if err := m.svc.DeleteAuthor(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "deleted (books cascade)")
		return nil
	case "17":
		genres, err := m.svc.GetGenres(ctx)
		if err != nil {
			return err
		}
		for _, g := range genres {
			fmt.Fprintf(m.out, "%d: %s\n", g.ID, g.Name)
		}
		return nil
	case "18":
		name, _ := m.prompt("genre name")
		id, err := m.svc.AddGenre(ctx, model.GenreInput{Name: name})
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "added genre %d\n", id)
		return nil
	case "19":
		id, err := m.promptInt64("genre id")
		if err != nil {
			return err
		}
		if err := m.svc.DeleteGenre(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "deleted (book references nulled)")
		return nil
	case "20":
		bookID, err := m.promptInt64("book id")
		if err != nil {
			return err
		}
		authorID, err := m.promptInt64("new author id")
		if err != nil {
			return err
		}
		if err := m.svc.TransferOwnership(ctx, bookID, authorID); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "transferred")
		return nil
	case "21":
		genreID, err := m.promptInt64("genre id")
		if err != nil {
			return err
		}
		percent, err := m.promptDecimal("discount percent")
		if err != nil {
			return err
		}
		n, err := m.svc.ApplyGenreDiscount(ctx, genreID, percent)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "repriced %d books\n", n)
		return nil
	case "22":
		count, err := m.promptInt("how many books")
		if err != nil {
			return err
		}
		books := make([]model.Book, 0, count)
		for i := 0; i < count; i++ {
			fmt.Fprintf(m.out, "-- book %d --\n", i+1)
			b, err := m.promptBook()
			if err != nil {
				return err
			}
			books = append(books, b)
		}
		n, err := m.svc.ImportBooks(ctx, books)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "imported %d books\n", n)
		return nil
	case "23":
		raw, _ := m.prompt("book ids (comma separated)")
		ids, err := parseIDList(raw)
		if err != nil {
			return err
		}
		n, err := m.svc.RemoveBooks(ctx, ids)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "removed %d books\n", n)
		return nil
	case "24":
		return m.printStatistics(ctx)
	case "25":
		sum, err := m.svc.GetTotalCatalogValue(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "total catalog value: $%s\n", sum.StringFixed(2))
		return nil
	default:
		fmt.Fprintln(m.out, "unknown choice")
		return nil
	}
}

func (m *Menu) printStatistics(ctx context.Context) error {
	st, err := m.svc.GetStatistics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "books: %d (available %d / unavailable %d)\n",
		st.TotalBooks, st.AvailableBooks, st.UnavailableBooks)
	fmt.Fprintf(m.out, "authors: %d, genres: %d\n", st.TotalAuthors, st.TotalGenres)
	fmt.Fprintf(m.out, "average price: $%s\n", st.AveragePrice.StringFixed(2))
	fmt.Fprintf(m.out, "most expensive: %s\n", st.MostExpensive)
	fmt.Fprintf(m.out, "cheapest: %s\n", st.Cheapest)
	for _, y := range st.ByYear {
		fmt.Fprintf(m.out, "  %d: %d books, avg $%s\n", y.Year, y.Count, y.AveragePrice.StringFixed(2))
	}
	for _, g := range st.ByGenre {
		fmt.Fprintf(m.out, "  %s: %d books, avg $%s\n", g.Genre, g.Count, g.AveragePrice.StringFixed(2))
	}
	return nil
}

func (m *Menu) printBooks(books []model.Book, err error) error {
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Fprintln(m.out, "no books")
		return nil
	}
	for _, b := range books {
		genre := "-"
		if b.Genre != nil {
			genre = b.Genre.Name
		}
		fmt.Fprintf(m.out, "%d: %s [%s, %d, %s]\n", b.ID, b.Display(), b.ISBN, b.PublicationYear, genre)
	}
	return nil
}

func (m *Menu) promptBook() (model.Book, error) {
	title, _ := m.prompt("title")
	isbn, _ := m.prompt("isbn")
	year, err := m.promptInt("publication year")
	if err != nil {
		return model.Book{}, err
	}
	price, err := m.promptDecimal("price")
	if err != nil {
		return model.Book{}, err
	}
	available, _ := m.prompt("available (y/n)")
	authorID, err := m.promptInt64("author id")
	if err != nil {
		return model.Book{}, err
	}
	genreRaw, _ := m.prompt("genre id (empty for none)")

	b := model.Book{
		Title:           title,
		ISBN:            isbn,
		PublicationYear: year,
		Price:           price,
		IsAvailable:     strings.EqualFold(available, "y"),
		AuthorID:        authorID,
	}
	if strings.TrimSpace(genreRaw) != "" {
		genreID, err := strconv.ParseInt(strings.TrimSpace(genreRaw), 10, 64)
		if err != nil {
			return model.Book{}, errors.Wrap(err, "genre id")
		}
		b.GenreID = &genreID
	}
	return b, nil
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprintf(m.out, "%s> ", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) promptInt(label string) (int, error) {
	raw, _ := m.prompt(label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(err, label)
	}
	return n, nil
}

func (m *Menu) promptInt64(label string) (int64, error) {
	raw, _ := m.prompt(label)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, label)
	}
	return n, nil
}

func (m *Menu) promptDecimal(label string) (decimal.Decimal, error) {
	raw, _ := m.prompt(label)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, label)
	}
	return d, nil
}

func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// report prints domain outcomes as plain messages and logs true faults.
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		fmt.Fprintln(m.out, "not found")
	case errs.IsValidation(err), errors.Is(err, errs.ErrDuplicateISBN):
		fmt.Fprintf(m.out, "invalid input: %v\n", err)
	default:
		m.log.Error("operation failed", zap.Error(err))
		fmt.Fprintf(m.out, "error: %v\n", err)
	}
}
