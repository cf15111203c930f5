package component

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"tunehub.io/tunehub-server/builder/store/database"
	"tunehub.io/tunehub-server/common/types"
)

func TestToVersionResKeepsEverySplit(t *testing.T) {
	dv := database.DatasetVersion{
		Version: 3,
		Status:  types.DatasetVersionReady,
		Splits: map[string]types.DatasetSplitRes{
			"eval_hard":      {Name: "eval_hard", RowCount: 120},
			types.SplitTrain: {Name: types.SplitTrain, RowCount: 5000},
			"adversarial":    {Name: "adversarial", RowCount: 300},
			types.SplitTest:  {Name: types.SplitTest, RowCount: 800},
		},
	}
	dv.CreatedAt = time.Now()

	res := toVersionRes(dv)

	var names []string
	for _, split := range res.Splits {
		names = append(names, split.Name)
	}
	// canonical splits lead, custom ones follow alphabetically
	require.Equal(t, []string{"train", "test", "adversarial", "eval_hard"}, names)
}

func TestToVersionResNoSplits(t *testing.T) {
	dv := database.DatasetVersion{
		Version: 1,
		Status:  types.DatasetVersionPreparing,
	}
	dv.CreatedAt = time.Now()

	res := toVersionRes(dv)
	require.Empty(t, res.Splits)
}
