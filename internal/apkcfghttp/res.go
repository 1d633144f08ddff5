package apkcfghttp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/frantjc/apkcfg"
	"github.com/timewasted/go-accept-headers"
	"gopkg.in/yaml.v3"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/yaml"
	ContentTypeHCL  = "application/hcl"
)

func wantsPretty(r *http.Request) bool {
	pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty"))
	return pretty
}

// negotiate picks the response Content-Type from the request's Accept header.
func negotiate(w http.ResponseWriter, r *http.Request) (string, error) {
	contentType := ContentTypeJSON

	if header := r.Header.Get("Accept"); header != "" {
		var err error
		if contentType, err = accept.Negotiate(header, ContentTypeJSON, ContentTypeYAML); err == nil && contentType == "" {
			err = fmt.Errorf("cannot satisfy Accept: %s", header)
		}

		if err != nil {
			w.Header().Set("Accept", ContentTypeJSON)
			w.Header().Add("Accept", ContentTypeYAML)
			return "", newHTTPStatusCodeError(err, http.StatusNotAcceptable)
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Vary", "Accept")

	return contentType, nil
}

// respond writes a with httpStatusCode in the negotiated Content-Type.
// Once the header is written, encoding failures can only be logged.
func respond(w http.ResponseWriter, r *http.Request, a any, httpStatusCode int) error {
	contentType, err := negotiate(w, r)
	if err != nil {
		return err
	}

	w.WriteHeader(httpStatusCode)

	if err := encode(w, r, contentType, a); err != nil {
		apkcfg.LoggerFrom(r.Context()).Error(err, "encode response", "contentType", contentType)
	}

	return nil
}

func encode(w io.Writer, r *http.Request, contentType string, a any) error {
	if contentType == ContentTypeYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	if wantsPretty(r) {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(a)
}

func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	httpStatusCode := httpStatusCode(err)

	if rerr := respond(w, r, map[string]string{"error": err.Error()}, httpStatusCode); rerr != nil {
		http.Error(w, err.Error(), httpStatusCode)
	}
}
