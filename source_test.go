package pave

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type signup struct {
	Email string         `kv:"email"`
	Age   int            `kv:"age"`
	Tags  []string       `kv:"tags"`
	Ref   Option[string] `kv:"ref"`
}

var errUnderage = errors.New("must be an adult")

func (s *signup) Validate() error {
	if s.Age < 18 {
		return errUnderage
	}
	return nil
}

func signupConstructor() *Constructor {
	return MustNew([]FieldSpec{
		Field("email", String()),
		Field("age", Integer()),
		DefaultField("tags", List(String()), []string{}),
		OptionalField("ref", String()),
	})
}

// kvLineSource decodes "k=v;k=v" lines into keyword lists.
type kvLine string

type kvLineSource struct{}

func (kvLineSource) Name() string             { return "kv-line" }
func (kvLineSource) SourceType() reflect.Type { return reflect.TypeOf(kvLine("")) }
func (s kvLineSource) Decode(source any) (any, error) {
	return TypeErasedDecode(s.Name(), func(line kvLine) (any, error) {
		var pairs []Pair
		for _, part := range strings.Split(string(line), ";") {
			key, value, ok := strings.Cut(part, "=")
			if !ok {
				return nil, decodeError("kv-line", errors.New("missing ="))
			}
			pairs = append(pairs, Pair{Key: key, Value: value})
		}
		return pairs, nil
	})(source)
}

var errCloseFailed = errors.New("close failed")

type failingCloser struct {
	io.Reader
}

func (failingCloser) Close() error { return errCloseFailed }

func newTestRegistry(t *testing.T, sources ...Source) *SourceRegistry {
	t.Helper()
	reg, err := NewSourceRegistry(SourceRegistryOpts{Sources: sources})
	require.NoError(t, err)
	return reg
}

func TestSourceRegistry_Register(t *testing.T) {
	t.Run("Duplicate", func(t *testing.T) {
		reg := newTestRegistry(t)
		err := reg.Register(NewJSONStringSource())
		assert.ErrorIs(t, err, ErrSourceAlreadyRegistered)
	})

	t.Run("DuplicateInOpts", func(t *testing.T) {
		_, err := NewSourceRegistry(SourceRegistryOpts{Sources: []Source{kvLineSource{}, kvLineSource{}}})
		assert.ErrorIs(t, err, ErrSourceAlreadyRegistered)
	})

	t.Run("ExcludeDefaults", func(t *testing.T) {
		reg, err := NewSourceRegistry(SourceRegistryOpts{ExcludeDefaults: true})
		require.NoError(t, err)
		_, err = reg.Decode(`{"a":1}`)
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("Custom", func(t *testing.T) {
		reg := newTestRegistry(t, kvLineSource{})
		values, err := reg.Run(MustNew([]FieldSpec{Field("a", String())}), kvLine("a=1;b=2"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": "1"}, values)
	})
}

func TestSourceRegistry_Selection(t *testing.T) {
	reg := newTestRegistry(t)
	doc := []byte(`{"email":"a@b.c","age":30}`)

	t.Run("AmbiguousByteSlice", func(t *testing.T) {
		_, err := reg.Decode(doc)
		assert.ErrorIs(t, err, ErrMultipleSourcesAvailable)
	})

	t.Run("UnknownName", func(t *testing.T) {
		_, err := reg.WithSource("xml-[]byte").Decode(doc)
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := reg.Decode(42)
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	t.Run("Named", func(t *testing.T) {
		input, err := reg.WithSource(JSONByteSliceSourceName).Decode(doc)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"email": "a@b.c", "age": 30}, input)
	})

	t.Run("SingleSourceForType", func(t *testing.T) {
		input, err := reg.Decode(`[1, 2.5, "x", true, null]`)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2.5, "x", true, nil}, input)
	})

	t.Run("NilConstructor", func(t *testing.T) {
		_, err := reg.Run(nil, map[string]any{})
		assert.ErrorIs(t, err, ErrNilConstructor)
		assert.ErrorIs(t, reg.Parse(nil, map[string]any{}, &signup{}, false), ErrNilConstructor)
	})
}

func TestSources_Decode(t *testing.T) {
	c := signupConstructor()
	expected := map[string]any{
		"email": "a@b.c",
		"age":   30,
		"tags":  []string{"x", "y"},
		"ref":   Nothing[any](),
	}

	packed, err := msgpack.Marshal(map[string]any{"email": "a@b.c", "age": 30, "tags": []string{"x", "y"}})
	require.NoError(t, err)

	tests := []struct {
		name   string
		source string
		input  any
	}{
		{name: "JSONBytes", source: JSONByteSliceSourceName, input: []byte(`{"email":"a@b.c","age":30,"tags":["x","y"]}`)},
		{name: "JSONString", source: JSONStringSourceName, input: `{"email":"a@b.c","age":30.0,"tags":["x","y"]}`},
		{name: "YAML", source: YAMLByteSliceSourceName, input: []byte("email: a@b.c\nage: 30\ntags: [x, y]\n")},
		{name: "Msgpack", source: MsgpackByteSliceSourceName, input: packed},
		{name: "Map", source: MapSourceName, input: map[string]any{"email": "a@b.c", "age": 30, "tags": []any{"x", "y"}}},
		{name: "PairList", source: PairListSourceName, input: KV("email", "a@b.c", "age", 30, "tags", []string{"x", "y"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := WithSource(tt.source).Run(c, tt.input)
			require.NoError(t, err)
			assert.Equal(t, expected, values)
		})
	}
}

func TestSources_DecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		input  any
	}{
		{name: "JSONBytes", source: JSONByteSliceSourceName, input: []byte(`{"email":`)},
		{name: "JSONString", source: JSONStringSourceName, input: `nope`},
		{name: "YAML", source: YAMLByteSliceSourceName, input: []byte("a: [1, 2\n")},
		{name: "Msgpack", source: MsgpackByteSliceSourceName, input: []byte{0xc1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WithSource(tt.source).Decode(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, &Error{Kind: KindDomain, Reason: ReasonInvalidSource})
			assert.Equal(t, tt.source, DetailsOf(err)[DetailSource])
		})
	}

	t.Run("WrongPayloadType", func(t *testing.T) {
		_, err := NewYAMLSource().Decode("a: 1")
		assert.Equal(t, ReasonInvalidSource, ReasonOf(err))
	})

	t.Run("NonObjectDocument", func(t *testing.T) {
		_, err := WithSource(JSONStringSourceName).Run(signupConstructor(), `[1]`)
		assert.Equal(t, ReasonInvalidInput, ReasonOf(err))
	})
}

func TestHTTPRequestSource(t *testing.T) {
	c := signupConstructor()

	t.Run("JSONBodyAndQuery", func(t *testing.T) {
		body := `{"email":"a@b.c","age":30}`
		req := httptest.NewRequest(http.MethodPost, "/signup?ref=ad&age=1", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		values, err := RunSource(c, req)
		require.NoError(t, err)
		assert.Equal(t, 30, values["age"])
		assert.Equal(t, Just[any]("ad"), values["ref"])

		restored, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, body, string(restored))
	})

	t.Run("EmptyJSONBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?email=a@b.c", http.NoBody)
		req.Header.Set("Content-Type", "application/json")
		input, err := Decode(req)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"email": "a@b.c"}, input)
	})

	t.Run("NonObjectBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1]`))
		req.Header.Set("Content-Type", "application/json")
		_, err := Decode(req)
		assert.Equal(t, ReasonInvalidSource, ReasonOf(err))
	})

	t.Run("InvalidBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		_, err := Decode(req)
		assert.Equal(t, ReasonInvalidSource, ReasonOf(err))
	})

	t.Run("Form", func(t *testing.T) {
		form := url.Values{"email": {"a@b.c"}, "tags": {"x", "y"}}
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		input, err := Decode(req)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"email": "a@b.c", "tags": []string{"x", "y"}}, input)
	})

	t.Run("BodyCloseError", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Content-Type", "application/json")
		req.Body = failingCloser{Reader: strings.NewReader(`{"email":"a@b.c"}`)}
		_, err := Decode(req)
		assert.Equal(t, ReasonInvalidSource, ReasonOf(err))
		assert.Contains(t, DetailsOf(err)[DetailCause], errCloseFailed.Error())
	})

	t.Run("NilRequest", func(t *testing.T) {
		_, err := Decode((*http.Request)(nil))
		assert.Equal(t, ReasonInvalidSource, ReasonOf(err))
	})
}

func TestParse(t *testing.T) {
	c := signupConstructor()

	t.Run("Valid", func(t *testing.T) {
		var s signup
		err := WithSource(JSONStringSourceName).Parse(c, `{"email":"a@b.c","age":30,"ref":"x"}`, &s, true)
		require.NoError(t, err)
		assert.Equal(t, signup{Email: "a@b.c", Age: 30, Tags: []string{}, Ref: Just("x")}, s)
	})

	t.Run("ValidateFails", func(t *testing.T) {
		s := signup{Email: "stale"}
		err := Parse(c, map[string]any{"email": "a@b.c", "age": 12}, &s, true)
		assert.ErrorIs(t, err, errUnderage)
		assert.Equal(t, signup{}, s)
	})

	t.Run("ValidateSkipped", func(t *testing.T) {
		var s signup
		require.NoError(t, Parse(c, map[string]any{"email": "a@b.c", "age": 12}, &s, false))
		assert.Equal(t, 12, s.Age)
	})

	t.Run("DecodeFailureZeroes", func(t *testing.T) {
		s := signup{Email: "stale"}
		err := WithSource(JSONStringSourceName).Parse(c, `{`, &s, true)
		assert.Equal(t, ReasonInvalidSource, ReasonOf(err))
		assert.Equal(t, signup{}, s)
	})

	t.Run("ValidationFailureZeroes", func(t *testing.T) {
		s := signup{Email: "stale"}
		err := Parse(c, KV("email", "a@b.c", "age", "old"), &s, true)
		assert.Equal(t, ReasonNotAnInteger, ReasonOf(err))
		assert.Equal(t, "age", DetailsOf(err)[DetailField])
		assert.Equal(t, signup{}, s)
	})

	t.Run("InvalidDestination", func(t *testing.T) {
		var s signup
		assert.ErrorIs(t, Parse(c, map[string]any{}, s, true), ErrInvalidDestination)
	})
}
