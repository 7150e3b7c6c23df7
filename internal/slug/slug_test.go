package slug

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Curso de Análisis", "curso-de-analisis"},
		{"  Programação em Go!  ", "programacao-em-go"},
		{"UPPER lower 123", "upper-lower-123"},
		{"---ya--con---guiones---", "ya-con-guiones"},
		{"çãõéíú", "caoeiu"},
		{"中文タイトル", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Make(c.in), "in=%q", c.in)
	}
}

func TestUniqueAddsSuffixes(t *testing.T) {
	ctx := context.Background()
	taken := map[string]bool{"curso": true, "curso-2": true}
	exists := func(_ context.Context, s, _ string) (bool, error) {
		return taken[s], nil
	}

	got, err := Unique(ctx, "Curso", "", exists)
	require.NoError(t, err)
	require.Equal(t, "curso-3", got)

	got, err = Unique(ctx, "Otro Curso", "", exists)
	require.NoError(t, err)
	require.Equal(t, "otro-curso", got)
}

func TestUniqueEmptyTitle(t *testing.T) {
	_, err := Unique(context.Background(), "!!!", "", func(context.Context, string, string) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, ErrEmpty)
}

func TestUniquePropagatesLookupError(t *testing.T) {
	boom := fmt.Errorf("db down")
	_, err := Unique(context.Background(), "Curso", "", func(context.Context, string, string) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestUniquePassesIgnoreID(t *testing.T) {
	var gotIgnore string
	_, err := Unique(context.Background(), "Curso", "p-42", func(_ context.Context, _, ignoreID string) (bool, error) {
		gotIgnore = ignoreID
		return false, nil
	})
	require.NoError(t, err)
	require.Equal(t, "p-42", gotIgnore)
}
