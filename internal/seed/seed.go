package seed

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ReemHassan742/bookcatalog/internal/cli"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

// Seeder populates an empty catalog with demo rows through the same
// service surface the console client uses.
type Seeder struct {
	svc cli.CatalogService
	log *zap.Logger
}

func NewSeeder(svc cli.CatalogService, log *zap.Logger) *Seeder {
	return &Seeder{svc: svc, log: log.Named("seed")}
}

// Run inserts demo authors, genres and books. A non-empty catalog is
// left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	books, err := s.svc.GetAllBooks(ctx)
	if err != nil {
		return err
	}
	if len(books) > 0 {
		s.log.Info("catalog not empty, skipping seed", zap.Int("books", len(books)))
		return nil
	}

	authorIDs := make(map[string]int64, len(demoAuthors))
	for _, a := range demoAuthors {
		id, err := s.svc.AddAuthor(ctx, a)
		if err != nil {
			return err
		}
		authorIDs[a.LastName] = id
	}

	genreIDs := make(map[string]int64, len(demoGenres))
	for _, g := range demoGenres {
		id, err := s.svc.AddGenre(ctx, g)
		if err != nil {
			return err
		}
		genreIDs[g.Name] = id
	}

	batch := make([]model.Book, 0, len(demoBooks))
	for _, b := range demoBooks {
		genreID := genreIDs[b.genre]
		batch = append(batch, model.Book{
			Title:           b.title,
			ISBN:            b.isbn,
			PublicationYear: b.year,
			Price:           decimal.RequireFromString(b.price),
			IsAvailable:     b.available,
			AuthorID:        authorIDs[b.author],
			GenreID:         &genreID,
		})
	}
	n, err := s.svc.ImportBooks(ctx, batch)
	if err != nil {
		return err
	}
	s.log.Info("seeded catalog",
		zap.Int("authors", len(demoAuthors)),
		zap.Int("genres", len(demoGenres)),
		zap.Int64("books", n))
	return nil
}

var demoAuthors = []model.AuthorInput{
	{FirstName: "George", LastName: "Orwell"},
	{FirstName: "Isaac", LastName: "Asimov"},
	{FirstName: "Ursula", LastName: "Le Guin"},
	{FirstName: "Agatha", LastName: "Christie"},
}

var demoGenres = []model.GenreInput{
	{Name: "Dystopia"},
	{Name: "Science Fiction"},
	{Name: "Mystery"},
}

var demoBooks = []struct {
	title     string
	isbn      string
	year      int
	price     string
	available bool
	author    string
	genre     string
}{
	{"1984", "978-0451524935", 1949, "9.99", true, "Orwell", "Dystopia"},
	{"Animal Farm", "978-0452284241", 1945, "7.49", true, "Orwell", "Dystopia"},
	{"Foundation", "978-0553293357", 1951, "8.99", true, "Asimov", "Science Fiction"},
	{"The Caves of Steel", "978-0553293401", 1954, "7.99", false, "Asimov", "Science Fiction"},
	{"The Left Hand of Darkness", "978-0441478125", 1969, "10.99", true, "Le Guin", "Science Fiction"},
	{"Murder on the Orient Express", "978-0062693662", 1934, "11.49", true, "Christie", "Mystery"},
	{"And Then There Were None", "978-0062073488", 1939, "9.49", false, "Christie", "Mystery"},
}
