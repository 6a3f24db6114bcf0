package backup

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/subcontrol/internal/location"
	"github.com/dmitrijs2005/subcontrol/internal/models"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

type stubStore struct {
	subs     []models.Subscription
	getErr   error
	applyErr error
}

func (s *stubStore) GetAll(context.Context) ([]models.Subscription, error) {
	return s.subs, s.getErr
}

func (s *stubStore) ReplaceAll(context.Context, []models.Subscription) (int64, error) {
	return 0, s.applyErr
}

func (s *stubStore) InsertMissing(context.Context, []models.Subscription) (int, []string, error) {
	return 0, nil, s.applyErr
}

type stubEncrypter struct{ err error }

func (e stubEncrypter) Encrypt(context.Context, []byte) ([]byte, error) { return nil, e.err }

type stubDestination struct{ err error }

func (d stubDestination) Write(context.Context, string, []byte) (location.Handle, error) {
	return location.Handle{}, d.err
}

type stubSource struct {
	name string
	data []byte
	err  error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Read(context.Context) ([]byte, error) { return s.data, s.err }

// countingSource records how often the artifact is read.
type countingSource struct {
	location.Source
	reads int
}

func (s *countingSource) Read(ctx context.Context) ([]byte, error) {
	s.reads++
	return s.Source.Read(ctx)
}
