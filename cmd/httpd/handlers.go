package main

import (
	"os"
	"path/filepath"

	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/method"
	"github.com/tofu345/http-library/http/mime"
	"github.com/tofu345/http-library/http/status"
)

const (
	echoPrefix  = "/echo/"
	filesPrefix = "/files/"
)

// handlers serve the files from and into the root directory.
type handlers struct {
	root string
}

func (h handlers) Index(*http.Request) *http.Response {
	return http.File(status.OK, filepath.Join(h.root, "index.html"))
}

func (h handlers) Echo(req *http.Request) *http.Response {
	return http.NewResponse(status.OK, req.Suffix(echoPrefix))
}

func (h handlers) UserAgent(req *http.Request) *http.Response {
	agent, found := req.Header("User-Agent")
	if !found {
		return http.Error(status.NewError(status.BadRequest, "missing User-Agent header"))
	}

	return http.NewResponse(status.OK, agent)
}

func (h handlers) Files(req *http.Request) *http.Response {
	path, err := h.resolve(req.Suffix(filesPrefix))
	if err != nil {
		return http.Error(err)
	}

	if req.Method == method.POST {
		if err = os.WriteFile(path, []byte(req.Body), 0o644); err != nil {
			return http.Error(err)
		}

		return http.Empty(status.Created)
	}

	resp, err := http.TryFile(status.OK, path)
	if err != nil {
		return http.Error(err)
	}

	return resp.Header("Content-Type", mime.OctetStream)
}

func (h handlers) JSON(*http.Request) *http.Response {
	return http.JSON(status.OK, map[string]string{"foo": "bar"})
}

// resolve maps the name onto the root directory. Names escaping the root are forbidden.
func (h handlers) resolve(name string) (string, error) {
	if len(name) == 0 {
		return "", status.ErrNotFound
	}

	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return "", status.ErrForbidden
	}

	return filepath.Join(h.root, name), nil
}
