package postsearch_test

import (
	"testing"

	"github.com/fwojciec/postsearch"
	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("same content yields same fingerprint", func(t *testing.T) {
		t.Parallel()

		a := postsearch.Fingerprint("hello world")
		b := postsearch.Fingerprint("hello world")

		assert.Equal(t, a, b)
	})

	t.Run("different content yields different fingerprint", func(t *testing.T) {
		t.Parallel()

		a := postsearch.Fingerprint("hello world")
		b := postsearch.Fingerprint("hello world!")

		assert.NotEqual(t, a, b)
	})

	t.Run("is a 16 character hex string", func(t *testing.T) {
		t.Parallel()

		fp := postsearch.Fingerprint("content")

		assert.Len(t, fp, 16)
		assert.Regexp(t, "^[0-9a-f]+$", fp)
	})

	t.Run("empty content has a fingerprint", func(t *testing.T) {
		t.Parallel()

		assert.NotEmpty(t, postsearch.Fingerprint(""))
	})
}
