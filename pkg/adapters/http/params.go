package http

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds JSON and form bodies read into params.
const maxBodyBytes = 1 << 20

// ParseParams merges query, form and JSON body values into one map.
// Bracketed keys nest ("post[title]=x" -> {"post": {"title": "x"}}).
// Later sources win: query, then form body, then JSON body.
func ParseParams(r *http.Request) (domain.Params, error) {
	params := domain.Params{}
	mergeValues(params, r.URL.Query())

	if r.Body == nil || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return params, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var body map[string]any
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, domain.WithCategory(domain.CategoryInvalid, fmt.Errorf("invalid json body: %w", err))
		}
		for k, v := range body {
			params[k] = v
		}
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
				return nil, domain.WithCategory(domain.CategoryInvalid, fmt.Errorf("invalid form body: %w", err))
			}
		} else if err := r.ParseForm(); err != nil {
			return nil, domain.WithCategory(domain.CategoryInvalid, fmt.Errorf("invalid form body: %w", err))
		}
		mergeValues(params, r.PostForm)
	}
	return params, nil
}

// PathParams returns the chi URL parameters of the matched route.
func PathParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return nil
	}
	out := make(map[string]string, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		if k == "*" {
			continue
		}
		out[k] = rctx.URLParams.Values[i]
	}
	return out
}

func mergeValues(dst domain.Params, values url.Values) {
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		var v any = vals[0]
		if strings.HasSuffix(key, "[]") || len(vals) > 1 {
			key = strings.TrimSuffix(key, "[]")
			list := make([]any, len(vals))
			for i, s := range vals {
				list[i] = s
			}
			v = list
		}
		setNested(dst, splitKey(key), v)
	}
}

// splitKey turns "post[author][name]" into ["post", "author", "name"].
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return []string{key}
	}
	parts := []string{key[:open]}
	rest := key[open+1 : len(key)-1]
	return append(parts, strings.Split(rest, "][")...)
}

func setNested(dst map[string]any, keys []string, v any) {
	for _, k := range keys[:len(keys)-1] {
		next, ok := dst[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			dst[k] = next
		}
		dst = next
	}
	dst[keys[len(keys)-1]] = v
}
