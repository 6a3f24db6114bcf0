package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var w bytes.Buffer
	v, err := GetSimpleText(reader("  hello \nnext\n"), "Name", &w)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.Equal(t, "Name\n> ", w.String())

	v, err = GetSimpleText(reader("partial"), "Name", &w)
	require.NoError(t, err)
	assert.Equal(t, "partial", v)

	_, err = GetSimpleText(reader(""), "Name", &w)
	require.Error(t, err)
}

func TestGetTextWithDefault(t *testing.T) {
	var w bytes.Buffer
	v, err := GetTextWithDefault(reader("\n"), "Currency", "USD", &w)
	require.NoError(t, err)
	assert.Equal(t, "USD", v)
	assert.Contains(t, w.String(), "Currency [USD]")

	v, err = GetTextWithDefault(reader("EUR\n"), "Currency", "USD", &w)
	require.NoError(t, err)
	assert.Equal(t, "EUR", v)
}

func TestConfirm(t *testing.T) {
	var w bytes.Buffer
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "\n": false, "no\n": false, "maybe\n": false} {
		got, err := Confirm(reader(in), "Sure?", &w)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var w bytes.Buffer
	pw, err := GetPassword("Passphrase", &w)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Passphrase: \n", w.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err = GetPassword("Passphrase", &w)
	require.Error(t, err)
}
