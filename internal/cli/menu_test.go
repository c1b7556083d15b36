package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_cli "github.com/ReemHassan742/bookcatalog/internal/cli/mocks"
	"github.com/ReemHassan742/bookcatalog/internal/errs"
	"github.com/ReemHassan742/bookcatalog/internal/model"
)

func newTestMenu(t *testing.T, input string) (*Menu, *mock_cli.MockCatalogService, *bytes.Buffer) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	svc := mock_cli.NewMockCatalogService(c)
	var out bytes.Buffer
	return NewMenu(svc, strings.NewReader(input), &out, zap.NewNop()), svc, &out
}

func TestParseIDList(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name    string
		raw     string
		want    []int64
		wantErr bool
	}{
		{name: "plain", raw: "1,2,3", want: []int64{1, 2, 3}},
		{name: "spaces and trailing comma", raw: " 4 , 5 ,", want: []int64{4, 5}},
		{name: "empty", raw: "", want: []int64{}},
		{name: "garbage", raw: "1,two", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ids, err := parseIDList(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, ids)
		})
	}
}

func TestMenu_Run_ErrorMapping(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name  string
		input string
		mock  func(svc *mock_cli.MockCatalogService)
		want  string
	}{
		{
			name:  "missing book prints not found",
			input: "2\n42\n0\n",
			mock: func(svc *mock_cli.MockCatalogService) {
				svc.EXPECT().GetBookByID(gomock.Any(), int64(42)).
					Return(model.Book{}, errors.Wrap(errs.ErrNotFound, "book"))
			},
			want: "not found",
		},
		{
			name:  "validation failure prints invalid input",
			input: "18\n\n0\n",
			mock: func(svc *mock_cli.MockCatalogService) {
				svc.EXPECT().AddGenre(gomock.Any(), model.GenreInput{Name: ""}).
					Return(int64(0), &errs.ValidationError{Field: "name", Message: "name is required"})
			},
			want: "invalid input",
		},
		{
			name:  "duplicate isbn prints invalid input",
			input: "3\nDune\n978-0441013593\n1965\n9.99\ny\n1\n\n0\n",
			mock: func(svc *mock_cli.MockCatalogService) {
				svc.EXPECT().AddBook(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.Wrap(errs.ErrDuplicateISBN, "add book"))
			},
			want: "invalid input",
		},
		{
			name:  "store fault prints error",
			input: "1\n0\n",
			mock: func(svc *mock_cli.MockCatalogService) {
				svc.EXPECT().GetAllBooks(gomock.Any()).
					Return(nil, errors.New("connection reset"))
			},
			want: "error: connection reset",
		},
		{
			name:  "total catalog value prints sum",
			input: "25\n0\n",
			mock: func(svc *mock_cli.MockCatalogService) {
				svc.EXPECT().GetTotalCatalogValue(gomock.Any()).
					Return(decimal.RequireFromString("42.5"), nil)
			},
			want: "total catalog value: $42.50",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, svc, out := newTestMenu(t, tt.input)
			tt.mock(svc)

			require.NoError(t, m.Run(context.Background()))
			require.Contains(t, out.String(), tt.want)
		})
	}
}

func TestMenu_Run_CanceledContextIsCleanShutdown(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, _, out := newTestMenu(t, "1\n")
	require.NoError(t, m.Run(ctx))
	require.Contains(t, out.String(), "bye")
}
