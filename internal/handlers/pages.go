package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) Index(c *gin.Context) {
	h.serveFile(c, "/index.html")
}

// Static serves any other GET path from the static directory.
func (h *Handlers) Static(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		h.fail(c, ErrNotFound)
		return
	}
	h.serveFile(c, c.Request.URL.Path)
}

func (h *Handlers) serveFile(c *gin.Context, name string) {
	name = path.Clean("/" + name)
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			h.fail(c, ErrNotFound)
			return
		}
	}

	f, err := http.Dir(h.staticDir).Open(name)
	if err != nil {
		h.fail(c, ErrNotFound)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		h.fail(c, ErrNotFound)
		return
	}
	http.ServeContent(c.Writer, c.Request, st.Name(), st.ModTime(), f)
}
