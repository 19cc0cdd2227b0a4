package handler

import (
	"net/http"
	"strconv"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

type SearchHandler struct {
	*Base
}

func NewSearchHandler(base *Base) *SearchHandler {
	return &SearchHandler{Base: base}
}

// Search handles GET /api/search?q=...&skip=&limit=.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := workspace(r).Search(r.Context(), service.SearchRequest{Query: q.Get("q"), Skip: skip, Limit: limit})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, res)
}
