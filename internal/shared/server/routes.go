package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/images"
	"userprefs-backend/internal/preferences"
	"userprefs-backend/internal/shared/server/respond"
)

// HandlerFunc is an endpoint that reports unhandled failures by returning them.
type HandlerFunc func(c *gin.Context) error

// Route is one entry of the route table.
type Route struct {
	Method  string
	Path    string
	Name    string
	Handler HandlerFunc
}

// Routes is the API surface. Key routes use a catch-all so keys keep their
// slashes.
func Routes(prefs *preferences.Handler, imgs *images.Handler) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/user/preferences", Name: "preferences.get", Handler: prefs.Get},
		{Method: http.MethodPut, Path: "/user/preferences", Name: "preferences.put", Handler: prefs.Put},
		{Method: http.MethodPost, Path: "/upload-url", Name: "images.uploadURL", Handler: imgs.UploadURL},
		{Method: http.MethodGet, Path: "/download-url/*key", Name: "images.downloadURL", Handler: imgs.DownloadURL},
		{Method: http.MethodDelete, Path: "/delete-image/*key", Name: "images.deleteImage", Handler: imgs.DeleteImage},
	}
}

func mount(rg *gin.RouterGroup, routes []Route) {
	for _, rt := range routes {
		rg.Handle(rt.Method, rt.Path, handle(rt.Handler))
	}
}

// handle converts a returned error into the uniform 500 response.
func handle(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			respond.Failure(c, err)
		}
	}
}

// firstSegments lists the leading path segment of every route.
func firstSegments(routes []Route) map[string]struct{} {
	out := make(map[string]struct{}, len(routes))
	for _, rt := range routes {
		seg, _, _ := strings.Cut(strings.TrimPrefix(rt.Path, "/"), "/")
		out[seg] = struct{}{}
	}
	return out
}
