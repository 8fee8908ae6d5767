package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run("последовательный доступ по одному ключу", func(t *testing.T) {
		counter := 0
		wg := sync.WaitGroup{}
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				success, err := WithDelay(context.Background(), "release:1", 5*time.Second, func() error {
					value := counter
					time.Sleep(5 * time.Millisecond)
					counter = value + 1
					return nil
				})
				require.NoError(t, err)
				require.True(t, success)
			}()
		}
		wg.Wait()
		require.Equal(t, 10, counter)
	})

	t.Run("истечение времени ожидания", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "release:2", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		success, err := WithDelay(context.Background(), "release:2", 100*time.Millisecond, func() error {
			return nil
		})
		require.NoError(t, err)
		require.False(t, success)
		close(release)
	})

	t.Run("разные ключи не конкурируют", func(t *testing.T) {
		success1, err := WithDelay(context.Background(), "release:3", time.Second, func() error {
			success2, err := WithDelay(context.Background(), "release:4", time.Second, func() error {
				return nil
			})
			require.NoError(t, err)
			require.True(t, success2)
			return nil
		})
		require.NoError(t, err)
		require.True(t, success1)
	})
}
