package pave

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"

	"github.com/tidwall/gjson"
)

// HTTPRequestSource decodes an *http.Request into constructor input.
//
// Query parameters and form values come first; a value that appears once
// becomes a string and a repeated one a []string. When the request carries
// a JSON object body, its members are merged on top. The body is restored
// after reading so later handlers can still consume it.
type HTTPRequestSource struct{}

func NewHTTPRequestSource() *HTTPRequestSource {
	return &HTTPRequestSource{}
}

func (hs *HTTPRequestSource) SourceType() reflect.Type {
	return HTTPRequestType
}

func (hs *HTTPRequestSource) Name() string {
	return HTTPRequestSourceName
}

func (hs *HTTPRequestSource) Decode(source any) (any, error) {
	return TypeErasedDecode(hs.Name(), hs.decode)(source)
}

func (hs *HTTPRequestSource) decode(request *http.Request) (any, error) {
	if request == nil {
		return nil, decodeError(hs.Name(), fmt.Errorf("request cannot be nil"))
	}

	input := make(map[string]any)

	if isJSONRequest(request) {
		body, err := hs.readBody(request)
		if err != nil {
			return nil, decodeError(hs.Name(), err)
		}
		if request.URL != nil {
			for key, values := range request.URL.Query() {
				input[key] = formValue(values)
			}
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return input, nil
		}
		if !gjson.ValidBytes(body) {
			return nil, decodeError(hs.Name(), errInvalidJSON)
		}
		doc := gjson.ParseBytes(body)
		if !doc.IsObject() {
			return nil, decodeError(hs.Name(), fmt.Errorf("expected a JSON object body, got %s", doc.Type))
		}
		doc.ForEach(func(key, value gjson.Result) bool {
			input[key.String()] = jsonValue(value)
			return true
		})
		return input, nil
	}

	if err := request.ParseForm(); err != nil {
		return nil, decodeError(hs.Name(), fmt.Errorf("failed to parse form: %w", err))
	}
	for key, values := range request.Form {
		input[key] = formValue(values)
	}
	return input, nil
}

// readBody reads the request body and puts an equivalent reader back.
func (hs *HTTPRequestSource) readBody(request *http.Request) ([]byte, error) {
	if request.Body == nil || request.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(request.Body)
	closeErr := request.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close request body: %w", closeErr)
	}
	request.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func isJSONRequest(request *http.Request) bool {
	contentType := request.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == ContentTypeApplicationJSON
}

func formValue(values []string) any {
	if len(values) == 1 {
		return values[0]
	}
	return values
}
