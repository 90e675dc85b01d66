package lazyjson

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squares(n int) [][]byte {
	docs := make([][]byte, n)
	for i := range docs {
		docs[i] = fmt.Appendf(nil, `{"i":%d,"pad":[%s0],"sq":%d}`, i, strings.Repeat("1,", i%40), i*i)
	}
	return docs
}

func TestParseBatch(t *testing.T) {
	docs := squares(500)
	for _, workers := range []int{0, 1, 3, 16} {
		t.Run(fmt.Sprint(workers), func(t *testing.T) {
			got := make([]int64, len(docs))
			err := ParseBatch(context.Background(), docs, func(i int, doc *Document) error {
				n, err := doc.FindField("sq").GetInt64()
				got[i] = n
				return err
			}, WithWorkers(workers))
			require.NoError(t, err)
			for i, n := range got {
				assert.Equal(t, int64(i*i), n)
			}
		})
	}
}

func TestParseBatchJoinsErrorsInOrder(t *testing.T) {
	docs := squares(10)
	docs[7] = []byte(`[1,]`)
	docs[3] = []byte(`{"sq":`)
	sentinel := errors.New("rejected")

	var calls atomic.Int32
	err := ParseBatch(context.Background(), docs, func(i int, doc *Document) error {
		calls.Add(1)
		if i == 5 {
			return sentinel
		}
		return nil
	}, WithWorkers(4))
	require.Error(t, err)
	assert.Equal(t, int32(8), calls.Load())

	assert.ErrorIs(t, err, ErrTape)
	assert.ErrorIs(t, err, ErrIncompleteArrayOrObject)
	assert.ErrorIs(t, err, sentinel)

	msg := err.Error()
	i3, i5, i7 := strings.Index(msg, "document 3"), strings.Index(msg, "document 5"), strings.Index(msg, "document 7")
	require.True(t, i3 >= 0 && i5 >= 0 && i7 >= 0, msg)
	assert.Less(t, i3, i5)
	assert.Less(t, i5, i7)
}

func TestParseBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := ParseBatch(ctx, squares(20), func(int, *Document) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestParseBatchOptions(t *testing.T) {
	err := ParseBatch(context.Background(), squares(3), func(int, *Document) error {
		t.Fatal("called with an invalid configuration")
		return nil
	}, WithParserOptions(WithMaxDepth(0)))
	assert.ErrorIs(t, err, ErrDepth)

	err = ParseBatch(context.Background(), [][]byte{[]byte(`[[1]]`), []byte(`[1]`)}, func(int, *Document) error {
		return nil
	}, WithParserOptions(WithMaxDepth(1)), WithBatchLogger(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 0")
	assert.NotContains(t, err.Error(), "document 1")

	require.NoError(t, ParseBatch(context.Background(), nil, func(int, *Document) error {
		return errors.New("no documents, no calls")
	}))
}

func TestUnmarshalBatch(t *testing.T) {
	events := makeEvents(300)
	docs := make([][]byte, len(events))
	for i, e := range events {
		var err error
		docs[i], err = Marshal(e)
		require.NoError(t, err)
	}

	got := make([]event, len(docs))
	err := UnmarshalBatch(context.Background(), docs, func(i int) any { return &got[i] }, WithWorkers(8))
	require.NoError(t, err)
	assert.Equal(t, events, got)

	docs[10] = []byte(`{"seq":"ten"}`)
	err = UnmarshalBatch(context.Background(), docs, func(i int) any { return &got[i] })
	assert.ErrorIs(t, err, ErrIncorrectType)
	assert.Contains(t, err.Error(), "document 10")
}
