package http

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/victorazevedo0/loja-virtual/internal/web"
	"github.com/victorazevedo0/loja-virtual/pkg/logger"
)

type WebHandler struct {
	tmpl *template.Template
	data web.PageData
	log  *logger.Logger
}

func NewWebHandler(log *logger.Logger) (*WebHandler, error) {
	if log == nil {
		log = logger.Nop()
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	return &WebHandler{
		tmpl: tmpl,
		data: web.PageData{
			OrdersAPI:   "/api/v1/orders/",
			ProductsAPI: "/products/",
			SyncAPI:     "/sync-products/",
		},
		log: log,
	}, nil
}

// GET /
func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := h.data
	data.Title = "Loja Virtual"
	h.render(w, r, web.IndexPage, data)
}

// GET /order_manager
func (h *WebHandler) OrderManager(w http.ResponseWriter, r *http.Request) {
	data := h.data
	data.Title = "Order manager"
	h.render(w, r, web.OrderManagerPage, data)
}

func (h *WebHandler) render(w http.ResponseWriter, r *http.Request, page string, data web.PageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, page, data); err != nil {
		h.log.Ctx(r.Context()).Error("failed to render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Static serves the embedded JS and CSS under /static/.
func (h *WebHandler) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(web.Static())))
}
