// internal/app/features/registrations/decode.go
package registrations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dalemusser/ekaahub/internal/app/system/uploads"
	"github.com/dalemusser/ekaahub/internal/domain/models"
)

const (
	maxJSONBytes      = 1 << 20
	maxMultipartBytes = 4*uploads.MaxImageBytes + 1<<20
	multipartMemory   = 8 << 20
)

var errBadBody = errors.New("request body could not be parsed")

// body is a decoded registration request regardless of its transport.
type body struct {
	values map[string]any
	files  map[string]*multipart.FileHeader
}

// parseBody reads a JSON, multipart or urlencoded body into raw values.
// Multipart files are kept by field name (first file wins).
func parseBody(w http.ResponseWriter, r *http.Request) (body, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	b := body{values: map[string]any{}, files: map[string]*multipart.FileHeader{}}

	switch ct {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return b, fmt.Errorf("%w: %v", errBadBody, err)
		}
		for k, vs := range r.MultipartForm.Value {
			b.values[k] = formValue(vs)
		}
		for k, fhs := range r.MultipartForm.File {
			if len(fhs) > 0 {
				b.files[k] = fhs[0]
			}
		}
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
		if err := r.ParseForm(); err != nil {
			return b, fmt.Errorf("%w: %v", errBadBody, err)
		}
		for k, vs := range r.PostForm {
			b.values[k] = formValue(vs)
		}
	default:
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
		dec.UseNumber()
		if err := dec.Decode(&b.values); err != nil && !errors.Is(err, io.EOF) {
			return b, fmt.Errorf("%w: %v", errBadBody, err)
		}
		if b.values == nil {
			b.values = map[string]any{}
		}
	}
	flattenSession(b.values)
	return b, nil
}

func formValue(vs []string) any {
	if len(vs) == 1 {
		return vs[0]
	}
	return vs
}

// flattenSession lifts the session reference out of the nested
// {"session": {"id": ...}} shape (or the "session[id]" form key) into
// sessionId. An explicit sessionId wins.
func flattenSession(values map[string]any) {
	if _, ok := values["sessionId"]; ok {
		return
	}
	if s, ok := values["session"].(map[string]any); ok {
		for _, k := range []string{"id", "_id", "sessionId"} {
			if v, ok := s[k]; ok && v != nil {
				values["sessionId"] = v
				return
			}
		}
	}
	for _, k := range []string{"session[id]", "session.id", "session[_id]"} {
		if v, ok := values[k]; ok {
			values["sessionId"] = v
			return
		}
	}
}

// normalize keeps the definition's accepted fields, converting each to its
// kind. Absent and null fields stay absent.
func (d Definition) normalize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(d.Fields))
	for _, name := range d.Fields {
		v, ok := raw[name]
		if !ok || v == nil {
			continue
		}
		f, known := fields[name]
		if !known {
			continue
		}
		out[name] = coerce(f.kind, v)
	}
	if email, ok := out["email"].(string); ok {
		out["email"] = strings.ToLower(email)
	}
	return out
}

// build copies validated values onto a new registration.
func (d Definition) build(values map[string]any) models.Registration {
	var reg models.Registration
	for name, v := range values {
		if f, ok := fields[name]; ok {
			f.set(&reg, v)
		}
	}
	return reg
}
