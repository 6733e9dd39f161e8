package sc13dg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher serves fixed texts by ref key and counts calls.
type stubFetcher struct {
	texts map[string]string
	err   error
	calls int
}

func (s *stubFetcher) FetchFilingText(_ context.Context, ref FilingRef) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	text, ok := s.texts[ref.Key()]
	if !ok {
		return "", ErrDocumentNotFound
	}
	return text, nil
}

func TestDirCachePath(t *testing.T) {
	c := NewDirCache("/cache", nil)
	ref := FilingRef{FileName: "edgar/data/1000045/0001104659-23-018361.txt"}

	assert.Equal(t, filepath.Join("/cache", "edgar", "data", "1000045", "000110465923018361", "0001104659-23-018361.txt"), c.Path(ref))

	ref.Document = "widget_sc13g.htm"
	assert.Equal(t, filepath.Join("/cache", "edgar", "data", "1000045", "000110465923018361", "widget_sc13g.htm"), c.Path(ref))
}

func TestDirCacheFetchesOnce(t *testing.T) {
	ref := FilingRef{FileName: "edgar/data/1000045/0001104659-23-018361.txt", Document: "widget_sc13g.htm"}
	next := &stubFetcher{texts: map[string]string{ref.Key(): "SCHEDULE 13G"}}
	c := NewDirCache(t.TempDir(), next)

	for i := 0; i < 2; i++ {
		text, err := c.FetchFilingText(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, "SCHEDULE 13G", text)
	}
	assert.Equal(t, 1, next.calls)

	data, err := os.ReadFile(c.Path(ref))
	require.NoError(t, err)
	assert.Equal(t, "SCHEDULE 13G", string(data))
}

func TestDirCacheErrors(t *testing.T) {
	ref := FilingRef{FileName: "edgar/data/1/0000000001-23-000001.txt"}

	_, err := NewDirCache(t.TempDir(), nil).FetchFilingText(context.Background(), ref)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	boom := errors.New("boom")
	c := NewDirCache(t.TempDir(), &stubFetcher{err: boom})
	_, err = c.FetchFilingText(context.Background(), ref)
	assert.ErrorIs(t, err, boom)
	_, statErr := os.Stat(c.Path(ref))
	assert.True(t, os.IsNotExist(statErr), "failed fetches are not cached")
}
