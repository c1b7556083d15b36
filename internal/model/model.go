package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID              int64           `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	ISBN            string          `json:"isbn" db:"isbn"`
	PublicationYear int             `json:"publicationYear" db:"publication_year"`
	Price           decimal.Decimal `json:"price" db:"price"`
	IsAvailable     bool            `json:"isAvailable" db:"is_available"`
	AddedAt         time.Time       `json:"addedAt" db:"added_at"`
	AuthorID        int64           `json:"authorId" db:"author_id"`
	GenreID         *int64          `json:"genreId" db:"genre_id"`

	// Eagerly joined navigation values. Callers display them directly,
	// so every read path must populate Author and, when GenreID is set,
	// Genre.
	Author *Author `json:"author" db:"-"`
	Genre  *Genre  `json:"genre,omitempty" db:"-"`
}

// Display renders the line the console client prints for a book.
func (b Book) Display() string {
	author := "unknown"
	if b.Author != nil {
		author = b.Author.FullName()
	}
	return fmt.Sprintf("%q by %s ($%s)", b.Title, author, b.Price.StringFixed(2))
}

type Author struct {
	ID        int64      `json:"id" db:"id"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Biography *string    `json:"biography,omitempty" db:"biography"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Country   *string    `json:"country,omitempty" db:"country"`
}

func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Genre struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
}

// AuthorInput carries the caller-supplied fields of an author.
type AuthorInput struct {
	FirstName string     `json:"firstName" validate:"required"`
	LastName  string     `json:"lastName" validate:"required"`
	Biography *string    `json:"biography"`
	BirthDate *time.Time `json:"birthDate"`
	Country   *string    `json:"country"`
}

// GenreInput carries the caller-supplied fields of a genre.
type GenreInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// BookPage is one window of the sorted catalog.
type BookPage struct {
	Items      []Book `json:"items"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalCount int64  `json:"totalCount"`
	TotalPages int64  `json:"totalPages"`
}

// Statistics is the fixed-shape summary over the whole catalog.
type Statistics struct {
	TotalBooks       int64           `json:"totalBooks"`
	TotalAuthors     int64           `json:"totalAuthors"`
	TotalGenres      int64           `json:"totalGenres"`
	AvailableBooks   int64           `json:"availableBooks"`
	UnavailableBooks int64           `json:"unavailableBooks"`
	AveragePrice     decimal.Decimal `json:"averagePrice"`
	MostExpensive    string          `json:"mostExpensive"`
	Cheapest         string          `json:"cheapest"`
	ByYear           []YearStats     `json:"byYear"`
	ByGenre          []GenreStats    `json:"byGenre"`
}

// YearStats is one publication-year bucket, newest year first.
type YearStats struct {
	Year         int             `json:"year" db:"publication_year"`
	Count        int64           `json:"count" db:"cnt"`
	AveragePrice decimal.Decimal `json:"averagePrice" db:"avg_price"`
}

// GenreStats is one genre bucket, ordered by descending book count.
type GenreStats struct {
	Genre        string          `json:"genre" db:"name"`
	Count        int64           `json:"count" db:"cnt"`
	AveragePrice decimal.Decimal `json:"averagePrice" db:"avg_price"`
}
