package languagetool_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/scribe/languagetool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkResponse = `{
  "matches": [
    {
      "message": "Possible agreement error.",
      "offset": 2,
      "length": 3,
      "context": {"text": "He go to school", "offset": 0, "length": 15},
      "replacements": [{"value": "goes"}, {"value": "went"}]
    }
  ]
}`

func TestClientCheck(t *testing.T) {
	t.Parallel()

	var gotText, gotLang, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		gotText = r.PostForm.Get("text")
		gotLang = r.PostForm.Get("language")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(checkResponse))
	}))
	t.Cleanup(srv.Close)

	c := languagetool.New(languagetool.WithURL(srv.URL), languagetool.WithHTTPClient(srv.Client()))
	matches, err := c.Check(context.Background(), "He go to school")
	require.NoError(t, err)

	assert.Equal(t, "He go to school", gotText)
	assert.Equal(t, "en", gotLang)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)

	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "Possible agreement error.", m.Message)
	assert.Equal(t, 2, m.Offset)
	assert.Equal(t, 3, m.Length)
	assert.Equal(t, "He go to school", m.Context.Text)
	require.Len(t, m.Replacements, 2)
	assert.Equal(t, "goes", m.Replacements[0].Value)
}

func TestClientCheck_Language(t *testing.T) {
	t.Parallel()

	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		gotLang = r.PostForm.Get("language")
		_, _ = w.Write([]byte(`{"matches":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := languagetool.New(languagetool.WithURL(srv.URL), languagetool.WithLanguage("en-GB"))
	matches, err := c.Check(context.Background(), "colour")
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, "en-GB", gotLang)
}

func TestClientCheck_Non2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := languagetool.New(languagetool.WithURL(srv.URL))
	_, err := c.Check(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClientCheck_BadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	t.Cleanup(srv.Close)

	c := languagetool.New(languagetool.WithURL(srv.URL))
	_, err := c.Check(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClientCheck_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[]}`))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := languagetool.New(languagetool.WithURL(srv.URL))
	_, err := c.Check(ctx, "text")
	require.ErrorIs(t, err, context.Canceled)
}

func TestClientCorrect(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[{"offset":2,"length":2,"context":{"text":"go","offset":2,"length":2},"replacements":[{"value":"goes"}]}]}`))
	}))
	t.Cleanup(srv.Close)

	t.Run("substring", func(t *testing.T) {
		t.Parallel()
		c := languagetool.New(languagetool.WithURL(srv.URL))
		got, err := c.Correct(context.Background(), "He go to school")
		require.NoError(t, err)
		assert.Equal(t, "He goes to school", got)
	})

	t.Run("offset", func(t *testing.T) {
		t.Parallel()
		c := languagetool.New(languagetool.WithURL(srv.URL), languagetool.WithPolicy(languagetool.PolicyOffset))
		got, err := c.Correct(context.Background(), "He go to school")
		require.NoError(t, err)
		assert.Equal(t, "He goes to school", got)
	})
}

func TestClientCorrect_NoMatches(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := languagetool.New(languagetool.WithURL(srv.URL))
	got, err := c.Correct(context.Background(), "Already fine.")
	require.NoError(t, err)
	assert.Equal(t, "Already fine.", got)
}
