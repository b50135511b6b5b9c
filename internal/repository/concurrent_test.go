package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/st8/internal/testutil"
)

// TestConcurrentAccess_ReadDuringWrite verifies that planning reads do not fail
// while a single writer fills a month.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := testutil.NewTestFileDB(t)
	ctx := context.Background()
	repo := NewSQLitePlanningRepo(database)

	var wg sync.WaitGroup
	writeErrs := make(chan error, 31)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for day := 1; day <= 31; day++ {
			if err := repo.Set(ctx, 2025, "C1", fmt.Sprintf("2025-01-%02d", day), "P"); err != nil {
				writeErrs <- err
			}
		}
	}()

	readErrs := make(chan error, 30)
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				if _, err := repo.LoadYear(ctx, 2025); err != nil {
					readErrs <- err
				}
			}
		}()
	}

	wg.Wait()
	close(writeErrs)
	close(readErrs)

	for err := range writeErrs {
		assert.NoError(t, err)
	}
	for err := range readErrs {
		assert.NoError(t, err)
	}

	yp, err := repo.LoadYear(ctx, 2025)
	require.NoError(t, err)
	assert.Len(t, yp["C1"], 31)
}
