package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxFormBytes = 1 << 20

// readForm accepts either a urlencoded form or a flat JSON object
// and returns its values keyed like the HTML forms.
func readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.New("invalid JSON payload")
		}
		values := url.Values{}
		for key, v := range raw {
			switch val := v.(type) {
			case nil:
			case string:
				values.Set(key, val)
			case json.Number:
				values.Set(key, val.String())
			case bool:
				values.Set(key, strconv.FormatBool(val))
			default:
				return nil, fmt.Errorf("field %q must be a scalar", key)
			}
		}
		return values, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.New("invalid form payload")
	}
	return r.PostForm, nil
}

// requireFields reports the form keys that are absent.
func requireFields(form url.Values, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if !form.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
