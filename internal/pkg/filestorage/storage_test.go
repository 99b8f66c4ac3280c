package filestorage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageReadMissing(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.Read(context.Background(), "events.json")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStorageWriteReplaces(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ls.Write(ctx, "events.json", []byte(`{"a":1}`)))
	require.NoError(t, ls.Write(ctx, "events.json", []byte(`{"b":2}`)))

	data, err := ls.Read(ctx, "events.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "events.json", entries[0].Name())
	assert.Equal(t, filepath.Join(dir, "events.json"), ls.Location("events.json"))
}

func TestLocalStorageCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorageRoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	st := NewS3StorageWithClient(fake, "council", "/cms/", time.Second)
	ctx := context.Background()

	_, err := st.Read(ctx, "clubs.json")
	assert.ErrorIs(t, err, ErrNotExist)

	require.NoError(t, st.Write(ctx, "clubs.json", []byte(`{}`)))
	assert.Contains(t, fake.objects, "cms/clubs.json")
	assert.Equal(t, "s3://council/cms/clubs.json", st.Location("clubs.json"))

	data, err := st.Read(ctx, "clubs.json")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
