package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	t.Parallel()

	st, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	key := "properties/p1/living-room.jpg"

	require.NoError(t, st.Put(ctx, key, bytes.NewReader([]byte("jpeg-bytes")), "image/jpeg"))

	exists, err := st.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := st.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	url := st.GetURL(key)
	assert.Equal(t, "http://localhost:8080/uploads/"+key, url)

	gotKey, ok := KeyFromURL(st, url)
	require.True(t, ok)
	assert.Equal(t, key, gotKey)

	require.NoError(t, st.Delete(ctx, key))
	require.NoError(t, st.Delete(ctx, key), "deleting twice is not an error")

	exists, err = st.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	err = st.Put(context.Background(), "../escape.txt", bytes.NewReader([]byte("x")), "text/plain")
	assert.Error(t, err)
}

func TestKeyFromURLForeignURL(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	_, ok := KeyFromURL(st, "https://cdn.example.com/a.jpg")
	assert.False(t, ok)
}

func TestValidateFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	_, mime, err := ValidateFile(bytes.NewReader(png), CategoryPropertyImage, 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, _, err = ValidateFile(bytes.NewReader([]byte("plain text")), CategoryPropertyImage, 1024)
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, _, err = ValidateFile(bytes.NewReader(png), CategoryPropertyImage, 4)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, _, err = ValidateFile(bytes.NewReader(nil), CategoryPropertyImage, 1024)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
}
