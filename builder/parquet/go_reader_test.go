package parquet_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pq "github.com/parquet-go/parquet-go"
	"github.com/spf13/cast"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"tunehub.io/tunehub-server/builder/parquet"
)

type testRow struct {
	Id   int64 `parquet:"Id"`
	Name int64 `parquet:"Name"`
}

// writeTestShards writes 10 parquet files of 20 rows each, ids counting
// up from 0 across files, the same layout the dataset stage produces.
func writeTestShards(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	paths := []string{}
	id := int64(0)
	for i := 0; i < 10; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%d.parquet", i))
		f, err := os.Create(path)
		require.NoError(t, err)
		w := pq.NewGenericWriter[testRow](f)
		rows := make([]testRow, 0, 20)
		for j := 0; j < 20; j++ {
			rows = append(rows, testRow{Id: id, Name: id})
			id++
		}
		_, err = w.Write(rows)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, f.Close())
		paths = append(paths, path)
	}
	return paths
}

func TestGoReader_All(t *testing.T) {
	cases := []struct {
		limit         int64
		offset        int64
		expectedRange string
	}{
		{10, 0, "0-9"},
		{10, 10, "10-19"},
		{10, 18, "18-27"},
		{30, 18, "18-47"},
		{60, 185, "185-199"},
		{100, 75, "75-174"},
	}

	paths := writeTestShards(t)
	reader := parquet.NewParquetGoReader(&parquet.OSFileClient{}, otel.Tracer("test"), "")
	for _, c := range cases {
		t.Run(fmt.Sprintf("%+v", c), func(t *testing.T) {
			columns, columnTypes, data, total, err := reader.RowsWithCount(
				context.TODO(),
				paths,
				c.limit,
				c.offset,
			)
			require.NoError(t, err)
			require.Equal(t, []string{"Id", "Name"}, columns)
			require.Equal(t, []string{"INT64", "INT64"}, columnTypes)
			require.Equal(t, int64(200), total)

			rg := strings.Split(c.expectedRange, "-")
			start := cast.ToInt64(rg[0])
			end := cast.ToInt64(rg[1])
			current := start
			for _, row := range data {
				id := cast.ToInt64(row[0])
				name := cast.ToInt64(row[1])
				require.Equal(t, current, id)
				require.Equal(t, current, name)
				current += 1
			}
			require.Equal(t, end+1, current)
		})
	}

}
