package backup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrpl-signer/pkg/errno"
)

const (
	secpSeed = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	edSeed   = "sEd7gsxCwikqZ9C81bjKMFNM9xoReYU"
)

func TestSplitCombine(t *testing.T) {
	for _, seed := range []string{secpSeed, edSeed} {
		shares, err := SplitSeed(seed, 5, 3)
		require.NoError(t, err)
		require.Len(t, shares, 5)

		// 任意 3 份都能恢复
		subsets := [][]int{{0, 1, 2}, {0, 2, 4}, {1, 3, 4}, {4, 3, 2}}
		for _, idx := range subsets {
			picked := make([]string, 0, len(idx))
			for _, i := range idx {
				picked = append(picked, shares[i])
			}
			got, err := CombineSeed(picked)
			require.NoError(t, err)
			assert.Equal(t, seed, got)
		}

		// 全部份额同样可以
		got, err := CombineSeed(shares)
		require.NoError(t, err)
		assert.Equal(t, seed, got)
	}
}

func TestSplitSeed_InvalidInput(t *testing.T) {
	_, err := SplitSeed("not-a-seed", 3, 2)
	assert.True(t, errors.Is(err, errno.ErrInvalidSeedEncoding))

	_, err = SplitSeed(secpSeed, 2, 3)
	assert.Error(t, err)
}

func TestCombineSeed_Errors(t *testing.T) {
	shares, err := SplitSeed(secpSeed, 3, 2)
	require.NoError(t, err)

	_, err = CombineSeed(shares[:1])
	assert.Error(t, err)

	_, err = CombineSeed([]string{shares[0], "zz"})
	assert.Error(t, err)

	// 来自不同种子的份额
	other, err := SplitSeed(edSeed, 3, 2)
	require.NoError(t, err)
	_, err = CombineSeed([]string{shares[0], other[1]})
	assert.Error(t, err)
}
